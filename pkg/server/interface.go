/*
Package server implements msgpack IPC for word completion services.

The server reads msgpack encoded requests from stdin one after another and
writes one msgpack response per request to stdout. Logs go to stderr so they
never interleave with responses.

# IPC

Every request carries an ID that is echoed in its response. The action field
selects the operation and defaults to "complete":

	{"id": "req_001", "p": "ame", "l": 24}

The server responds with suggestions ranked by frequency, rank 1 first, and
the lookup time in microseconds:

	{"id": "req_001", "s": [{"w": "amenity", "r": 1, "f": 870}, {"w": "america", "r": 2, "f": 455}], "c": 2, "t": 145}

Other actions manage the dictionary at runtime:

	{"id": "ins_001", "action": "insert", "w": "gopher", "n": 12}
	{"id": "more_01", "action": "more", "n": 50000}
	{"id": "save_01", "action": "save", "path": "/tmp/words.txt"}
	{"id": "stat_01", "action": "stats"}
	{"id": "ping_01", "action": "ping"}

Insert, more, save and ping answer with an AckResponse, stats with a
StatsResponse. Failed requests answer with a CompletionError holding a
message and an HTTP-like status code; the server keeps running.

# Message Types

Request is the single request shape; unused fields are omitted on the wire.
CompletionResponse carries the suggestions of a completion request.
AckResponse reports the outcome of a dictionary operation and StatsResponse
the dictionary and cache counters.
*/
package server

// Action names accepted in Request.Action.
const (
	ActionComplete = "complete"
	ActionInsert   = "insert"
	ActionMore     = "more"
	ActionSave     = "save"
	ActionStats    = "stats"
	ActionPing     = "ping"
)

// Request - any client request
type Request struct {
	ID     string `msgpack:"id"`
	Action string `msgpack:"action,omitempty"`
	Prefix string `msgpack:"p,omitempty"`
	Limit  int    `msgpack:"l,omitempty"`
	Word   string `msgpack:"w,omitempty"`
	Count  uint64 `msgpack:"n,omitempty"` // weight for "insert", words for "more"
	Path   string `msgpack:"path,omitempty"`
}

// CompletionSuggestion - minimal suggestion response
type CompletionSuggestion struct {
	Word      string `msgpack:"w"`
	Rank      uint16 `msgpack:"r"`
	Frequency uint64 `msgpack:"f"`
}

// CompletionResponse - completion response
type CompletionResponse struct {
	ID          string                 `msgpack:"id"`
	Suggestions []CompletionSuggestion `msgpack:"s"`
	Count       int                    `msgpack:"c"`
	TimeTaken   int64                  `msgpack:"t"`
}

// AckResponse - dictionary operation response
type AckResponse struct {
	ID     string `msgpack:"id"`
	Status string `msgpack:"status"`
	Count  uint64 `msgpack:"n,omitempty"`
}

// StatsResponse - dictionary and cache statistics
type StatsResponse struct {
	ID    string         `msgpack:"id"`
	Stats map[string]int `msgpack:"stats"`
}

// CompletionError holds basic error information for failed requests
type CompletionError struct {
	ID    string `msgpack:"id"`
	Error string `msgpack:"e"`
	Code  int    `msgpack:"c"`
}
