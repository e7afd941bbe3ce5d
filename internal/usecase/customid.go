package usecase

import (
	"slices"
	"strings"
)

const (
	customIDPrefix = "article"
	kindTag        = "tag"
	kindConfirm    = "confirm"
	kindModal      = "modal"

	// URLFieldID identifies the URL field inside the text-input form.
	URLFieldID = "article-url"
)

// ControlID is a decoded selection control identity.
type ControlID struct {
	Kind      string
	SessionID string
	Value     string
}

// TagControlID encodes the toggle for value in session.
func TagControlID(sessionID, value string) string {
	return strings.Join([]string{customIDPrefix, kindTag, sessionID, value}, ":")
}

// ConfirmControlID encodes the confirm control of session.
func ConfirmControlID(sessionID string) string {
	return strings.Join([]string{customIDPrefix, kindConfirm, sessionID}, ":")
}

// ModalID carries the confirmed selection into the text-input form, so the
// form submission needs no session lookup.
func ModalID(selected []string) string {
	return strings.Join([]string{customIDPrefix, kindModal, strings.Join(selected, ",")}, ":")
}

// ParseControlID decodes tag and confirm identities.
func ParseControlID(id string) (ControlID, bool) {
	parts := strings.Split(id, ":")
	if len(parts) < 3 || parts[0] != customIDPrefix || parts[2] == "" {
		return ControlID{}, false
	}
	switch {
	case parts[1] == kindTag && len(parts) == 4 && parts[3] != "":
		return ControlID{Kind: kindTag, SessionID: parts[2], Value: parts[3]}, true
	case parts[1] == kindConfirm && len(parts) == 3:
		return ControlID{Kind: kindConfirm, SessionID: parts[2]}, true
	default:
		return ControlID{}, false
	}
}

// ParseModalID returns the categories carried by a form identity. Values
// outside the taxonomy are kept so validation can reject them.
func ParseModalID(id string) ([]string, bool) {
	rest, ok := strings.CutPrefix(id, customIDPrefix+":"+kindModal+":")
	if !ok {
		return nil, false
	}
	var categories []string
	for _, v := range strings.Split(rest, ",") {
		if v = strings.TrimSpace(v); v != "" && !slices.Contains(categories, v) {
			categories = append(categories, v)
		}
	}
	return categories, true
}
