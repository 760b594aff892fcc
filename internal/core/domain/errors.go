package domain

import "errors"

// Validation errors.
var (
	ErrInvalidName   = errors.New("name must be between 3 and 16 characters")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrWeakPassword  = errors.New("password is too short")
)

// Authorization errors.
var (
	ErrNotLeader          = errors.New("player is not the squad leader")
	ErrMustDisbandInstead = errors.New("leader cannot leave the squad, disband it instead")
	ErrNotRegistered      = errors.New("player is not registered")
)

// Resource-conflict errors.
var (
	ErrAlreadyRegistered  = errors.New("player already registered")
	ErrNotEnoughKills     = errors.New("not enough kills")
	ErrNameTaken          = errors.New("squad name already taken")
	ErrSquadNotFound      = errors.New("squad not found")
	ErrSquadFull          = errors.New("squad is full")
	ErrAlreadyInSquad     = errors.New("player already belongs to a squad")
	ErrNotInSquad         = errors.New("player is not in a squad")
	ErrAlreadyMember      = errors.New("player is already a member")
	ErrDuplicateRequest   = errors.New("join request already pending")
	ErrRequestNotFound    = errors.New("join request not found")
	ErrInsufficientFunds  = errors.New("insufficient funds")
	ErrMaxTier            = errors.New("squad is already at the maximum tier")
	ErrMaxRank            = errors.New("player is already at the maximum rank")
	ErrAccountExists      = errors.New("account already exists")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrNoAccount          = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
