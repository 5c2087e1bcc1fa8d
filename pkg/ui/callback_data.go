package ui

import (
	"errors"
	"strings"
)

const (
	CallbackPrefix     = "p:"
	MaxCallbackDataLen = 64
)

// Kind is the button the student pressed under a practice message.
type Kind string

const (
	KindHint    Kind = "hint"
	KindSkip    Kind = "skip"
	KindNext    Kind = "next"
	KindSummary Kind = "sum"
)

// Action is a parsed callback. WordID is set for buttons that belong to one
// prompt, so a stale button can be told apart from the current one.
type Action struct {
	Kind   Kind
	WordID string
}

var (
	errInvalidPrefix       = errors.New("invalid callback prefix")
	errInvalidAction       = errors.New("invalid callback action")
	errInvalidWordID       = errors.New("invalid callback word id")
	errCallbackDataTooLong = errors.New("callback data too long")
)

func BuildHintCallback(wordID string) (string, error) {
	return buildWordCallback(KindHint, wordID)
}

func BuildSkipCallback(wordID string) (string, error) {
	return buildWordCallback(KindSkip, wordID)
}

func BuildNextCallback() (string, error) {
	return validateCallbackData(CallbackPrefix + string(KindNext))
}

func BuildSummaryCallback() (string, error) {
	return validateCallbackData(CallbackPrefix + string(KindSummary))
}

func ParseCallbackData(data string) (Action, error) {
	if data == "" {
		return Action{}, errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return Action{}, errCallbackDataTooLong
	}
	if !strings.HasPrefix(data, CallbackPrefix) {
		return Action{}, errInvalidPrefix
	}

	parts := strings.Split(strings.TrimPrefix(data, CallbackPrefix), ":")
	kind, err := parseKind(parts[0])
	if err != nil {
		return Action{}, err
	}

	switch len(parts) {
	case 1:
		if needsWord(kind) {
			return Action{}, errInvalidWordID
		}
		return Action{Kind: kind}, nil
	case 2:
		if !needsWord(kind) {
			return Action{}, errInvalidAction
		}
		if !isWordID(parts[1]) {
			return Action{}, errInvalidWordID
		}
		return Action{Kind: kind, WordID: parts[1]}, nil
	default:
		return Action{}, errInvalidAction
	}
}

func buildWordCallback(kind Kind, wordID string) (string, error) {
	if !isWordID(wordID) {
		return "", errInvalidWordID
	}
	return validateCallbackData(CallbackPrefix + string(kind) + ":" + wordID)
}

func validateCallbackData(data string) (string, error) {
	if data == "" {
		return "", errInvalidAction
	}
	if len(data) > MaxCallbackDataLen {
		return "", errCallbackDataTooLong
	}
	return data, nil
}

func parseKind(value string) (Kind, error) {
	switch Kind(value) {
	case KindHint, KindSkip, KindNext, KindSummary:
		return Kind(value), nil
	default:
		return "", errInvalidAction
	}
}

func needsWord(kind Kind) bool {
	return kind == KindHint || kind == KindSkip
}

// isWordID accepts the characters of a UUID and nothing else.
func isWordID(value string) bool {
	if value == "" {
		return false
	}
	for i := 0; i < len(value); i++ {
		c := value[i]
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') && (c < 'A' || c > 'F') && c != '-' {
			return false
		}
	}
	return true
}
