package mux

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"fairdeal-server/pkg/game"
)

func decodeRequest(w http.ResponseWriter, r *http.Request, payload interface{}) bool {
	if ct := r.Header.Get("Content-Type"); ct != "application/json" && ct != "text/json" {
		writeJSONError(w, http.StatusUnsupportedMediaType, nil)
		return false
	}

	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeJSONError(w, http.StatusBadRequest, err)
		return false
	}

	return true
}

func writeJSON(w http.ResponseWriter, statusCode int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.WithError(err).Error("could not write JSON response")
	}
}

type errorResponse struct {
	Message    string `json:"message"`
	Code       string `json:"code,omitempty"`
	StatusCode int    `json:"statusCode"`
}

// statusForCode maps a game error code to an HTTP status. Conflicts with the
// current lifecycle state are 409s; malformed or unverifiable input is a 400.
func statusForCode(code game.Code) int {
	switch code {
	case game.CodeGameNotFound, game.CodePlayerNotFound:
		return http.StatusNotFound
	case game.CodeNotAuthorized:
		return http.StatusForbidden
	case game.CodeInvalidState, game.CodeNotYourTurn, game.CodeGameFull,
		game.CodeSequenceViolation, game.CodeAlreadyRevealed:
		return http.StatusConflict
	case game.CodeBetTooLow, game.CodeInsufficientChips, game.CodeInsufficientPlayers,
		game.CodeCommitmentMismatch, game.CodeInvalidSignature, game.CodeUnknownRequest:
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

func writeGameError(w http.ResponseWriter, err error) {
	code := game.CodeOf(err)
	statusCode := statusForCode(code)

	if statusCode >= 500 {
		logrus.WithField("statusCode", statusCode).Error(err)
		writeJSONError(w, statusCode, nil)
		return
	}

	writeJSON(w, statusCode, errorResponse{
		Message:    err.Error(),
		Code:       string(code),
		StatusCode: statusCode,
	})
}

func writeJSONError(w http.ResponseWriter, statusCode int, err error) {
	var msg string

	if statusCode < 500 && err != nil {
		msg = err.Error()
	} else {
		msg = http.StatusText(statusCode)
	}

	if statusCode >= 500 {
		logrus.WithField("statusCode", statusCode).Error(err)
	}

	writeJSON(w, statusCode, errorResponse{
		Message:    msg,
		StatusCode: statusCode,
	})
}
