package session

import (
	"context"
	"sync"
	"time"

	"guild-progression/internal/core/domain"
	"guild-progression/internal/core/ports"
	"guild-progression/internal/metrics"
)

type Ledger interface {
	IsRegistered(id domain.PlayerID) bool
	MonsterKills(id domain.PlayerID) uint64
	Rank(id domain.PlayerID) domain.Rank
	Player(id domain.PlayerID) (domain.PlayerRecord, bool)
	RegisterPlayer(ctx context.Context, id domain.PlayerID) (uint64, error)
	PlayerSquad(id domain.PlayerID) (string, bool)
	Squad(name string) (domain.SquadRecord, bool)
	Squads() []domain.SquadRecord
	AddJoinRequest(ctx context.Context, name string, id domain.PlayerID) error
	LeaveSquad(ctx context.Context, id domain.PlayerID) (string, error)
	DisbandSquad(ctx context.Context, name string, leader domain.PlayerID) ([]domain.PlayerID, error)
	RenameSquad(ctx context.Context, name, newName string, leader domain.PlayerID) error
	SetJoinFee(ctx context.Context, name string, leader domain.PlayerID, fee float64) error
}

type Treasurer interface {
	CreationCost() float64
	CreateSquad(ctx context.Context, name string, leader domain.PlayerID) error
	Deposit(ctx context.Context, name string, leader domain.PlayerID, amount float64) error
	Withdraw(ctx context.Context, name string, leader domain.PlayerID, amount float64) error
	Upgrade(ctx context.Context, name string, leader domain.PlayerID) (domain.SquadTier, error)
	Approve(ctx context.Context, name string, leader, player domain.PlayerID) error
	Reject(ctx context.Context, name string, leader, player domain.PlayerID) error
}

type Evaluator interface {
	Advance(ctx context.Context, id domain.PlayerID) (domain.Promotion, bool)
	Announce(ctx context.Context, promo domain.Promotion)
}

type Accounts interface {
	HasAccount(id domain.PlayerID) bool
	IsLoggedIn(id domain.PlayerID) bool
	Username(id domain.PlayerID) string
	CheckUsername(username string) error
	Register(ctx context.Context, id domain.PlayerID, username, password string) (string, error)
	Login(ctx context.Context, id domain.PlayerID, password string) (string, error)
}

type Dependencies struct {
	Ledger    Ledger
	Treasurer Treasurer
	Currency  ports.Currency
	Evaluator Evaluator
	Accounts  Accounts
	// Display renders a player reference for messages.
	Display    func(domain.PlayerID) string
	SessionTTL time.Duration
	Now        func() time.Time
}

// Controller turns menu selections and typed answers into ledger calls. All
// intents run one at a time; promotions found along the way are announced
// after the lock is released.
type Controller struct {
	mu        sync.Mutex
	ledger    Ledger
	treasurer Treasurer
	currency  ports.Currency
	evaluator Evaluator
	accounts  Accounts
	display   func(domain.PlayerID) string
	ttl       time.Duration
	now       func() time.Time
}

func New(deps Dependencies) *Controller {
	c := &Controller{
		ledger:    deps.Ledger,
		treasurer: deps.Treasurer,
		currency:  deps.Currency,
		evaluator: deps.Evaluator,
		accounts:  deps.Accounts,
		display:   deps.Display,
		ttl:       deps.SessionTTL,
		now:       deps.Now,
	}
	if c.display == nil {
		c.display = func(id domain.PlayerID) string { return string(id) }
	}
	if c.now == nil {
		c.now = time.Now
	}
	return c
}

// turn collects what a single intent produced.
type turn struct {
	reply      Reply
	promotions []domain.Promotion
}

func (t *turn) say(text string) {
	if t.reply.Text == "" {
		t.reply.Text = text
		return
	}
	t.reply.Text += "\n" + text
}

func (t *turn) notify(to domain.PlayerID, text string) {
	t.reply.Notices = append(t.reply.Notices, Notice{To: to, Text: text})
}

// MenuSelect handles a click on a menu entry. Any pending session is dropped
// first: a player who navigates away has abandoned the prompt.
func (c *Controller) MenuSelect(ctx context.Context, sc *Context, slot Slot) Reply {
	c.mu.Lock()
	sc.clear()
	t := &turn{}
	c.route(ctx, sc, slot, t)
	c.mu.Unlock()

	c.announce(ctx, t.promotions)
	return t.reply
}

// TextInput answers the pending prompt. Text without a pending session, or
// after the session expired, is ignored and yields an empty Reply.
func (c *Controller) TextInput(ctx context.Context, sc *Context, text string) Reply {
	c.mu.Lock()
	if !sc.Pending() || c.expired(sc) {
		c.mu.Unlock()
		return Reply{}
	}

	state, scratch := sc.state, sc.scratch
	sc.clear()

	t := &turn{}
	if state.credential() {
		// Password answers hash or compare with bcrypt and only touch the
		// account store, so they run without the controller lock.
		c.mu.Unlock()
		c.answer(ctx, sc, state, scratch, text, t)
	} else {
		c.answer(ctx, sc, state, scratch, text, t)
		c.mu.Unlock()
	}

	c.announce(ctx, t.promotions)
	return t.reply
}

// Active reports whether the session still waits for input, expiring it
// first when it is stale.
func (c *Controller) Active(sc *Context) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.expired(sc) && sc.Pending()
}

func (c *Controller) expired(sc *Context) bool {
	if c.ttl <= 0 || !sc.Pending() || c.now().Sub(sc.since) < c.ttl {
		return false
	}
	sc.clear()
	metrics.SessionsExpired.Inc()
	return true
}

func (c *Controller) announce(ctx context.Context, promotions []domain.Promotion) {
	if c.evaluator == nil {
		return
	}
	for _, p := range promotions {
		c.evaluator.Announce(ctx, p)
	}
}

func (c *Controller) ask(sc *Context, t *turn, state State, scratch string, prompt Prompt) {
	sc.begin(state, scratch, c.now())
	metrics.SessionsStarted.WithLabelValues(state.String()).Inc()
	t.reply.Prompt = &prompt
}

func (c *Controller) route(ctx context.Context, sc *Context, slot Slot, t *turn) {
	id := sc.Player

	switch slot.Action {
	case ActionMain:
		t.reply.Menu = c.mainMenu(id)
	case ActionRegister:
		c.register(ctx, id, t)
	case ActionPromote:
		c.promote(ctx, id, t)
	case ActionSquad:
		t.reply.Menu = c.squadMenu(id)
	case ActionCreate:
		c.beginCreate(ctx, sc, t)
	case ActionList:
		c.listSquads(t)
	case ActionJoinByName:
		c.beginJoin(sc, t, StateSquadJoinName)
	case ActionRequestByName:
		c.beginJoin(sc, t, StateJoinRequestSquad)
	case ActionRequest:
		c.requestJoin(ctx, id, slot.Arg, t)
	case ActionLeave:
		c.leave(ctx, id, t)
	case ActionDisband:
		c.disband(ctx, id, t)
	case ActionManage:
		c.manage(id, t)
	case ActionRename:
		c.beginLeaderPrompt(sc, t, StateSquadRename, Prompt{Title: "Rename squad", Label: "New squad name (3-16 characters)"})
	case ActionDeposit:
		c.beginLeaderPrompt(sc, t, StateTreasuryDeposit, Prompt{Title: "Deposit to treasury", Label: "Amount to deposit"})
	case ActionWithdraw:
		c.beginLeaderPrompt(sc, t, StateTreasuryWithdraw, Prompt{Title: "Withdraw from treasury", Label: "Amount to withdraw"})
	case ActionJoinFee:
		c.beginLeaderPrompt(sc, t, StateJoinFee, Prompt{Title: "Join fee", Label: "New join fee (0 for free)"})
	case ActionUpgrade:
		c.upgrade(ctx, id, t)
	case ActionRequests:
		c.requests(id, t)
	case ActionApprove:
		c.approve(ctx, id, domain.PlayerID(slot.Arg), t)
	case ActionReject:
		c.reject(ctx, id, domain.PlayerID(slot.Arg), t)
	case ActionAccountRegister:
		c.beginAccountRegister(sc, t)
	case ActionAccountLogin:
		c.beginLogin(sc, t)
	case ActionBalance:
		c.balance(ctx, id, t)
	}
}

func (c *Controller) answer(ctx context.Context, sc *Context, state State, scratch, text string, t *turn) {
	id := sc.Player

	switch state {
	case StateSquadName:
		c.createSquad(ctx, id, text, t)
	case StateSquadJoinName, StateJoinRequestSquad:
		c.joinByName(ctx, id, text, t)
	case StateSquadRename:
		c.rename(ctx, id, text, t)
	case StateTreasuryDeposit:
		c.deposit(ctx, id, text, t)
	case StateTreasuryWithdraw:
		c.withdraw(ctx, id, text, t)
	case StateJoinFee:
		c.setJoinFee(ctx, id, text, t)
	case StateRegisterUsername:
		c.chooseUsername(sc, text, t)
	case StateRegisterPassword:
		c.createAccount(ctx, id, scratch, text, t)
	case StateLoginPassword:
		c.login(ctx, id, text, t)
	}
}
