/*
Package server implements msgpack IPC for lexicon query services.

The server provides a minimal interface for word search, judging,
definitions and prefix suggestions using msgpack serialization over
stdin/stdout.

# IPC

The server operates on a request response model where clients send
structured messages via stdin and receive responses through stdout.
Each message contains an ID field, a command and the fields the
command needs.

A search request carries a condition list:

	{"id": "req_001", "cmd": "search", "cond": [{"t": "Anagram Match", "s": "AECR"}]}

The server responds with the matching words:

	{"id": "req_001", "w": ["CARE", "RACE"], "c": 2, "t": 3}

A judge request checks word acceptability:

	{"id": "req_002", "cmd": "judge", "word": "QI"}

Define and suggest requests return definition text and ranked prefix
completions. Responses include status information and error details
when an op fails.

msgpack encoding has ~30 to 50% smaller message sizes compared to
JSON, and the binary format parses faster on both ends.
*/
package server

// Request is the envelope every client message decodes into; unused
// fields stay at their zero value.
type Request struct {
	ID         string          `msgpack:"id"`
	Command    string          `msgpack:"cmd"`
	Word       string          `msgpack:"word,omitempty"`
	Prefix     string          `msgpack:"p,omitempty"`
	Limit      int             `msgpack:"l,omitempty"`
	AllCaps    bool            `msgpack:"caps,omitempty"`
	Resolve    bool            `msgpack:"resolve,omitempty"`
	Disjunct   bool            `msgpack:"any,omitempty"`
	Conditions []WireCondition `msgpack:"cond,omitempty"`
}

// WireCondition is one search condition on the wire. Type names match
// the display names of the condition types.
type WireCondition struct {
	Type    string `msgpack:"t"`
	Min     int    `msgpack:"min,omitempty"`
	Max     int    `msgpack:"max,omitempty"`
	Str     string `msgpack:"s,omitempty"`
	Negated bool   `msgpack:"neg,omitempty"`
	Lax     bool   `msgpack:"lax,omitempty"`
	Legacy  bool   `msgpack:"legacy,omitempty"`
}

// SearchResponse - word list response
type SearchResponse struct {
	ID        string   `msgpack:"id"`
	Words     []string `msgpack:"w"`
	Count     int      `msgpack:"c"`
	TimeTaken int64    `msgpack:"t"`
}

// JudgeResponse - word acceptability response
type JudgeResponse struct {
	ID         string `msgpack:"id"`
	Word       string `msgpack:"word"`
	Acceptable bool   `msgpack:"ok"`
}

// DefineResponse - definition text response
type DefineResponse struct {
	ID         string `msgpack:"id"`
	Word       string `msgpack:"word"`
	Definition string `msgpack:"d"`
}

// SuggestEntry - one ranked prefix completion
type SuggestEntry struct {
	Word string  `msgpack:"w"`
	Rank float64 `msgpack:"r"`
}

// SuggestResponse - prefix completion response
type SuggestResponse struct {
	ID          string         `msgpack:"id"`
	Suggestions []SuggestEntry `msgpack:"s"`
	Count       int            `msgpack:"c"`
	TimeTaken   int64          `msgpack:"t"`
}

// CountResponse - lexicon metadata response
type CountResponse struct {
	ID      string `msgpack:"id"`
	Lexicon string `msgpack:"lex"`
	Words   int    `msgpack:"n"`
}

// StatusResponse - health and readiness response
type StatusResponse struct {
	ID     string `msgpack:"id,omitempty"`
	Status string `msgpack:"status"`
}

// ErrorResponse holds basic error information for failed requests
type ErrorResponse struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
