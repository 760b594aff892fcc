package session

import (
	"time"

	"guild-progression/internal/core/domain"
)

// State is the input a player's session is waiting for.
type State int

const (
	StateIdle State = iota
	StateSquadName
	StateSquadJoinName
	StateSquadRename
	StateTreasuryDeposit
	StateTreasuryWithdraw
	StateJoinFee
	StateJoinRequestSquad
	StateRegisterUsername
	StateRegisterPassword
	StateLoginPassword
)

var stateNames = map[State]string{
	StateIdle:             "idle",
	StateSquadName:        "squad_name",
	StateSquadJoinName:    "squad_join_name",
	StateSquadRename:      "squad_rename",
	StateTreasuryDeposit:  "treasury_deposit",
	StateTreasuryWithdraw: "treasury_withdraw",
	StateJoinFee:          "join_fee",
	StateJoinRequestSquad: "join_request_squad",
	StateRegisterUsername: "register_username",
	StateRegisterPassword: "register_password",
	StateLoginPassword:    "login_password",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return "unknown"
}

func (s State) credential() bool {
	return s == StateRegisterPassword || s == StateLoginPassword
}

// Context is one player's conversation with the controller. The presentation
// layer owns it and passes it with every intent; the controller is the only
// writer.
type Context struct {
	Player  domain.PlayerID
	state   State
	scratch string
	since   time.Time
}

func NewContext(id domain.PlayerID) *Context {
	return &Context{Player: id}
}

func (c *Context) State() State {
	return c.state
}

func (c *Context) Pending() bool {
	return c.state != StateIdle
}

func (c *Context) begin(state State, scratch string, now time.Time) {
	c.state = state
	c.scratch = scratch
	c.since = now
}

func (c *Context) clear() {
	c.state = StateIdle
	c.scratch = ""
	c.since = time.Time{}
}
