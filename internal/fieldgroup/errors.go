package fieldgroup

import (
	"sort"
	"strconv"
	"strings"
)

// GroupErrors splits a backend validation payload into per-group messages
// and root-level messages.
type GroupErrors struct {
	Groups map[int][]string `json:"groups,omitempty"`
	Root   []string         `json:"root,omitempty"`
}

// Empty reports whether no message was mapped.
func (e GroupErrors) Empty() bool {
	return len(e.Groups) == 0 && len(e.Root) == 0
}

// MapErrors maps a field → messages payload onto the collection. Keys in the
// form "variants.2.name", "variants[2].options", "/variants/2/name",
// "name-2" or "opt-2" land on group 2 when it exists; anything else,
// including keys naming a missing group, falls back to Root so no message is
// lost.
func MapErrors(c Collection, payload map[string][]string) GroupErrors {
	out := GroupErrors{Groups: make(map[int][]string)}
	if len(payload) == 0 {
		out.Groups = nil
		return out
	}

	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		messages := normalizeMessages(payload[key])
		if len(messages) == 0 {
			continue
		}
		id, ok := groupIDFromKey(c.Kind, key)
		if !ok || c.indexOf(id) < 0 {
			out.Root = append(out.Root, messages...)
			continue
		}
		out.Groups[id] = normalizeMessages(append(out.Groups[id], messages...))
	}

	if len(out.Groups) == 0 {
		out.Groups = nil
	}
	out.Root = normalizeMessages(out.Root)
	return out
}

func groupIDFromKey(kind Kind, raw string) (int, bool) {
	key := strings.TrimSpace(raw)
	for _, prefix := range []string{"name-", "opt-"} {
		if rest, ok := strings.CutPrefix(key, prefix); ok {
			id, err := strconv.Atoi(rest)
			return id, err == nil && id > 0
		}
	}

	segments := pathSegments(key)
	if len(segments) < 2 || !strings.EqualFold(segments[0], kind.Plural()) {
		return 0, false
	}
	id, err := strconv.Atoi(segments[1])
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}

func pathSegments(path string) []string {
	clean := strings.NewReplacer("[", ".", "]", "", "/", ".").Replace(path)
	parts := strings.Split(strings.Trim(clean, ".$#"), ".")
	out := parts[:0]
	for _, part := range parts {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}
	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))
	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
