package session

import (
	"strings"

	"guild-progression/internal/core/domain"
)

// Action identifies a menu entry. It is the stable part of a Slot and must
// survive a round trip through the presentation layer.
type Action string

const (
	ActionMain            Action = "main"
	ActionRegister        Action = "register"
	ActionPromote         Action = "promote"
	ActionSquad           Action = "squad"
	ActionCreate          Action = "create"
	ActionList            Action = "list"
	ActionJoinByName      Action = "join-name"
	ActionRequest         Action = "request"
	ActionRequestByName   Action = "request-name"
	ActionLeave           Action = "leave"
	ActionDisband         Action = "disband"
	ActionManage          Action = "manage"
	ActionRename          Action = "rename"
	ActionDeposit         Action = "deposit"
	ActionWithdraw        Action = "withdraw"
	ActionUpgrade         Action = "upgrade"
	ActionJoinFee         Action = "fee"
	ActionRequests        Action = "requests"
	ActionApprove         Action = "approve"
	ActionReject          Action = "reject"
	ActionAccountRegister Action = "account-register"
	ActionAccountLogin    Action = "account-login"
	ActionBalance         Action = "balance"
)

var knownActions = map[Action]bool{
	ActionMain: true, ActionRegister: true, ActionPromote: true, ActionSquad: true,
	ActionCreate: true, ActionList: true, ActionJoinByName: true, ActionRequest: true,
	ActionRequestByName: true, ActionLeave: true, ActionDisband: true, ActionManage: true,
	ActionRename: true, ActionDeposit: true, ActionWithdraw: true, ActionUpgrade: true,
	ActionJoinFee: true, ActionRequests: true, ActionApprove: true, ActionReject: true,
	ActionAccountRegister: true, ActionAccountLogin: true, ActionBalance: true,
}

// Slot is the identity of a selectable menu entry. Arg carries the squad or
// player the entry refers to, when there is one.
type Slot struct {
	Action Action
	Arg    string
}

func (s Slot) String() string {
	if s.Arg == "" {
		return string(s.Action)
	}
	return string(s.Action) + ":" + s.Arg
}

// ParseSlot is the inverse of Slot.String. Everything after the first colon
// belongs to Arg.
func ParseSlot(raw string) (Slot, bool) {
	action, arg, _ := strings.Cut(raw, ":")
	if !knownActions[Action(action)] {
		return Slot{}, false
	}
	return Slot{Action: Action(action), Arg: arg}, true
}

type Option struct {
	Slot   Slot
	Label  string
	Danger bool
}

type Menu struct {
	Title   string
	Lines   []string
	Options []Option
}

// Prompt asks the presentation layer to collect one line of free text, which
// comes back as a TextInput.
type Prompt struct {
	Title  string
	Label  string
	Secret bool
}

// Notice is a message for a player other than the one who acted.
type Notice struct {
	To   domain.PlayerID
	Text string
}

type Reply struct {
	Text    string
	Menu    *Menu
	Prompt  *Prompt
	Notices []Notice
}

// Empty reports whether the intent was ignored.
func (r Reply) Empty() bool {
	return r.Text == "" && r.Menu == nil && r.Prompt == nil && len(r.Notices) == 0
}
