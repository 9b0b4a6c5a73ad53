// Package webhook разбирает уведомления Notion об изменениях страниц.
// Схема менялась между версиями API, поэтому каждая версия разбирается своим
// адаптером в единое представление Event.
package webhook

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrMalformedEvent = errors.New("webhook: malformed payload")

type Kind string

const (
	KindCreated           Kind = "created"
	KindContentUpdated    Kind = "content_updated"
	KindPropertiesUpdated Kind = "properties_updated"
	KindDeleted           Kind = "deleted"
)

// Event: нормализованное событие. Kind пустой, если тип не поддерживается.
type Event struct {
	Kind    Kind
	RawType string
	PageID  string
	Schema  string
}

func (e Event) Supported() bool { return e.Kind != "" }

// Request: разобранное тело запроса: либо рукопожатие, либо пачка событий.
type Request struct {
	Verification bool
	Challenge    string
	Events       []Event
}

type envelope struct {
	Type      string            `json:"type"`
	Challenge string            `json:"challenge"`
	Events    []json.RawMessage `json:"events"`
}

// wireEvent: объединение полей всех известных схем.
type wireEvent struct {
	Type   string `json:"type"`
	Entity *struct {
		ID   string `json:"id"`
		Type string `json:"type"`
	} `json:"entity"`
	Data *struct {
		ID     string `json:"id"`
		PageID string `json:"page_id"`
	} `json:"data"`
	PageID string `json:"page_id"`
}

type adapter struct {
	name    string
	extract func(w wireEvent) (pageID string, ok bool)
}

var adapters = []adapter{
	// {"type":"page.created","entity":{"id":"...","type":"page"}}
	{name: "entity", extract: func(w wireEvent) (string, bool) {
		if w.Entity == nil {
			return "", false
		}
		return w.Entity.ID, true
	}},
	// {"type":"page.updated","data":{"id":"..."}}
	{name: "data", extract: func(w wireEvent) (string, bool) {
		if w.Data == nil {
			return "", false
		}
		if w.Data.PageID != "" {
			return w.Data.PageID, true
		}
		return w.Data.ID, true
	}},
	// {"type":"page.updated","page_id":"..."}
	{name: "legacy", extract: func(w wireEvent) (string, bool) {
		if w.PageID == "" {
			return "", false
		}
		return w.PageID, true
	}},
}

var kindAliases = map[string]Kind{
	"created":            KindCreated,
	"undeleted":          KindCreated,
	"content_updated":    KindContentUpdated,
	"updated":            KindContentUpdated,
	"properties_updated": KindPropertiesUpdated,
	"moved":              KindPropertiesUpdated,
	"deleted":            KindDeleted,
}

// NormalizeKind: "page.content_updated" -> KindContentUpdated; неизвестное -> "".
func NormalizeKind(raw string) Kind {
	t := strings.ToLower(strings.TrimSpace(raw))
	t = strings.TrimPrefix(t, "page.")
	return kindAliases[t]
}

// Parse разбирает тело: одиночное событие, {"events":[...]} или url_verification.
func Parse(body []byte) (*Request, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	if env.Type == "url_verification" {
		return &Request{Verification: true, Challenge: env.Challenge}, nil
	}

	raws := env.Events
	if raws == nil {
		raws = []json.RawMessage{body}
	}

	req := &Request{Events: make([]Event, 0, len(raws))}
	for i, raw := range raws {
		ev, err := parseEvent(raw)
		if err != nil {
			return nil, fmt.Errorf("event %d: %w", i, err)
		}
		req.Events = append(req.Events, ev)
	}
	return req, nil
}

func parseEvent(raw json.RawMessage) (Event, error) {
	var w wireEvent
	if err := json.Unmarshal(raw, &w); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrMalformedEvent, err)
	}

	ev := Event{RawType: w.Type, Kind: NormalizeKind(w.Type)}
	// события о базах/комментариях приходят с entity.type != "page"
	if w.Entity != nil && w.Entity.Type != "" && w.Entity.Type != "page" {
		ev.Kind = ""
	}

	for _, a := range adapters {
		if id, ok := a.extract(w); ok {
			ev.PageID = strings.TrimSpace(id)
			ev.Schema = a.name
			break
		}
	}
	return ev, nil
}
