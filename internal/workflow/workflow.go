// Package workflow holds the approval-chain and item-return decision rules.
// Everything here is pure: handlers load a gate pass, run these functions,
// and persist whatever comes back.
package workflow

import (
	"errors"
	"strings"
	"time"

	"gate-pass-api-server/internal/models"
)

var (
	ErrUnknownStage    = errors.New("unknown approval stage")
	ErrNotCurrentStage = errors.New("request is not pending at this stage")
	ErrTerminal        = errors.New("request was rejected at an earlier stage")
	ErrCommentRequired = errors.New("a comment is required to reject")
)

// stageOrder is the required sequence of the approval chain.
var stageOrder = []string{
	models.StageExecutive,
	models.StageVerify,
	models.StageDispatch,
	models.StageReceive,
}

// StageForRole maps an account role to the stage it acts on.
func StageForRole(role string) (string, bool) {
	switch role {
	case models.RoleExecutive:
		return models.StageExecutive, true
	case models.RoleVerify:
		return models.StageVerify, true
	case models.RoleDispatch:
		return models.StageDispatch, true
	case models.RoleReceiver:
		return models.StageReceive, true
	}
	return "", false
}

// NewChain returns the initial stage records for a freshly submitted
// gate pass, all pending.
func NewChain() []models.ApprovalStage {
	chain := make([]models.ApprovalStage, 0, len(stageOrder))
	for _, role := range stageOrder {
		chain = append(chain, models.ApprovalStage{Role: role, Outcome: models.OutcomePending})
	}
	return chain
}

func stageIndex(stage string) int {
	for i, s := range stageOrder {
		if s == stage {
			return i
		}
	}
	return -1
}

func findStage(chain []models.ApprovalStage, stage string) int {
	for i := range chain {
		if chain[i].Role == stage {
			return i
		}
	}
	return -1
}

// IsRejected reports whether any stage recorded a rejection, which is
// terminal for the whole request.
func IsRejected(chain []models.ApprovalStage) bool {
	for i := range chain {
		if chain[i].Outcome == models.OutcomeRejected {
			return true
		}
	}
	return false
}

// IsCompleted reports whether every stage has approved.
func IsCompleted(chain []models.ApprovalStage) bool {
	for i := range chain {
		if chain[i].Outcome != models.OutcomeApproved {
			return false
		}
	}
	return len(chain) > 0
}

// CurrentStage returns the stage whose approval is awaited. ok is false
// when the chain is terminal (rejected or fully approved).
func CurrentStage(chain []models.ApprovalStage) (string, bool) {
	if IsRejected(chain) {
		return "", false
	}
	for i := range chain {
		if chain[i].Outcome == models.OutcomePending {
			return chain[i].Role, true
		}
	}
	return "", false
}

// PendingAt reports whether the request sits in the given stage's pending
// bucket: all earlier stages approved, this one still pending, no
// rejection anywhere.
func PendingAt(chain []models.ApprovalStage, stage string) bool {
	current, ok := CurrentStage(chain)
	return ok && current == stage
}

// OutcomeAt returns the recorded outcome for a stage.
func OutcomeAt(chain []models.ApprovalStage, stage string) string {
	if i := findStage(chain, stage); i >= 0 {
		return chain[i].Outcome
	}
	return ""
}

func checkActionable(chain []models.ApprovalStage, stage string) (int, error) {
	if stageIndex(stage) < 0 {
		return -1, ErrUnknownStage
	}
	if IsRejected(chain) {
		return -1, ErrTerminal
	}
	if !PendingAt(chain, stage) {
		return -1, ErrNotCurrentStage
	}
	return findStage(chain, stage), nil
}

// Approve records an approval at the given stage. The comment is optional;
// details only makes sense at the verify stage and is ignored elsewhere.
// The input chain is not modified.
func Approve(chain []models.ApprovalStage, stage, actorServiceNo, comment string, details *models.LoadingDetails, now time.Time) ([]models.ApprovalStage, error) {
	i, err := checkActionable(chain, stage)
	if err != nil {
		return nil, err
	}
	out := append([]models.ApprovalStage(nil), chain...)
	out[i].Outcome = models.OutcomeApproved
	out[i].Comment = strings.TrimSpace(comment)
	out[i].ActorServiceNo = actorServiceNo
	out[i].ActedAt = &now
	if stage == models.StageVerify {
		out[i].LoadingDetails = details
	}
	return out, nil
}

// Reject records a rejection at the given stage. The comment is mandatory
// and must not be blank; validation happens here, before any store write.
func Reject(chain []models.ApprovalStage, stage, actorServiceNo, comment string, now time.Time) ([]models.ApprovalStage, error) {
	if strings.TrimSpace(comment) == "" {
		return nil, ErrCommentRequired
	}
	i, err := checkActionable(chain, stage)
	if err != nil {
		return nil, err
	}
	out := append([]models.ApprovalStage(nil), chain...)
	out[i].Outcome = models.OutcomeRejected
	out[i].Comment = strings.TrimSpace(comment)
	out[i].ActorServiceNo = actorServiceNo
	out[i].ActedAt = &now
	return out, nil
}
