package crowdin

// ---------------------------------------------------------------------------
// Domain records (read-only to this system; the backend owns them)
// ---------------------------------------------------------------------------

// SourceString is an immutable source-string record as returned by the
// string search. Labels holds the label names attached at fetch time.
type SourceString struct {
	ID         int64
	Text       string
	Identifier string
	Context    string
	FileID     int64
	Labels     []string
}

// Label is a project label. Titles are unique within a project.
type Label struct {
	ID    int64
	Title string
}

// Translation is one translation revision for a (string, language) pair,
// as returned by the per-language translation listing (most recent first).
type Translation struct {
	ID        int64
	Text      string
	CreatedAt string
}

// Ack is the backend's acknowledgement of a single translation write.
type Ack struct {
	ID        int64  `json:"id"`
	StringID  int64  `json:"stringId"`
	Language  string `json:"languageId"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}

// ---------------------------------------------------------------------------
// Wire envelope
//
// The REST API wraps everything twice: list responses are
// {"data":[{"data":{...}}, ...]} and single objects are {"data":{...}}.
// ---------------------------------------------------------------------------

type listEnvelope[T any] struct {
	Data []struct {
		Data T `json:"data"`
	} `json:"data"`
}

type objectEnvelope[T any] struct {
	Data T `json:"data"`
}

type wireProject struct {
	ID              int64 `json:"id"`
	TargetLanguages []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"targetLanguages"`
}

type wireString struct {
	ID         int64  `json:"id"`
	Text       string `json:"text"`
	Identifier string `json:"identifier"`
	Context    string `json:"context"`
	FileID     int64  `json:"fileId"`
	Labels     []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"labels"`
}

func (w wireString) toSourceString() SourceString {
	s := SourceString{
		ID:         w.ID,
		Text:       w.Text,
		Identifier: w.Identifier,
		Context:    w.Context,
		FileID:     w.FileID,
	}
	for _, l := range w.Labels {
		s.Labels = append(s.Labels, l.Name)
	}
	return s
}

type wireLabel struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

type wireTranslation struct {
	ID        int64  `json:"id"`
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`
}
