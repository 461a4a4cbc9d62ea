package game

import (
	"errors"
	"fmt"
)

// Code classifies a game error
type Code string

// error codes
const (
	CodeInvalidState        Code = "invalidState"
	CodeNotAuthorized       Code = "notAuthorized"
	CodeNotYourTurn         Code = "notYourTurn"
	CodeInsufficientChips   Code = "insufficientChips"
	CodeBetTooLow           Code = "betTooLow"
	CodeGameFull            Code = "gameFull"
	CodeInsufficientPlayers Code = "insufficientPlayers"
	CodeCommitmentMismatch  Code = "commitmentMismatch"
	CodeInvalidSignature    Code = "invalidSignature"
	CodeAlreadyRevealed     Code = "alreadyRevealed"
	CodeSequenceViolation   Code = "sequenceViolation"
	CodeUnknownRequest      Code = "unknownRequest"
	CodePlayerNotFound      Code = "playerNotFound"
	CodeGameNotFound        Code = "gameNotFound"
)

// Error is a typed game error. Every failed operation surfaces one of these;
// a failed operation never leaves a partial mutation behind.
type Error struct {
	Code    Code
	Message string
}

func (e Error) Error() string {
	return e.Message
}

func newError(code Code, format string, a ...interface{}) Error {
	return Error{
		Code:    code,
		Message: fmt.Sprintf(format, a...),
	}
}

// CodeOf returns the Code of a game error, or the empty string
func CodeOf(err error) Code {
	var gameErr Error
	if errors.As(err, &gameErr) {
		return gameErr.Code
	}

	return ""
}
