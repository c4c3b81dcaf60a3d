package server

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bastiangx/wordtrie/pkg/config"
	"github.com/bastiangx/wordtrie/pkg/suggest"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	log.SetLevel(log.ErrorLevel)
}

func newTestCompleter(t *testing.T) *suggest.Completer {
	t.Helper()
	c := suggest.NewCompleter(suggest.Options{HotCacheSize: 16})
	for w, f := range map[string]uint64{"hello": 40, "help": 90, "helmet": 10, "world": 5} {
		_, err := c.AddWord(w, f)
		require.NoError(t, err)
	}
	return c
}

// run feeds requests to a fresh server and returns a decoder over its output.
func run(t *testing.T, c *suggest.Completer, cfg *config.Config, requests ...any) (*msgpack.Decoder, error) {
	t.Helper()
	var in bytes.Buffer
	enc := msgpack.NewEncoder(&in)
	for _, r := range requests {
		require.NoError(t, enc.Encode(r))
	}
	var out bytes.Buffer
	err := NewServerWithIO(c, cfg, &in, &out).Start()
	return msgpack.NewDecoder(&out), err
}

func TestComplete(t *testing.T) {
	dec, err := run(t, newTestCompleter(t), nil,
		Request{ID: "1", Prefix: "hel", Limit: 2},
		Request{ID: "2", Action: ActionComplete, Prefix: "wor"},
	)
	require.NoError(t, err)

	var resp CompletionResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "1", resp.ID)
	assert.Equal(t, 2, resp.Count)
	assert.Equal(t, []CompletionSuggestion{
		{Word: "help", Rank: 1, Frequency: 90},
		{Word: "hello", Rank: 2, Frequency: 40},
	}, resp.Suggestions)
	assert.GreaterOrEqual(t, resp.TimeTaken, int64(0))

	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, "2", resp.ID)
	assert.Equal(t, []CompletionSuggestion{{Word: "world", Rank: 1, Frequency: 5}}, resp.Suggestions)
}

func TestCompleteValidation(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MinPrefix = 2
	cfg.Server.MaxPrefix = 5

	tests := []struct {
		name    string
		prefix  string
		wantErr string
	}{
		{"empty", "", "missing prefix"},
		{"too short", "h", "at least 2"},
		{"too long", "helloworld", "maximum length of 5"},
		{"invalid utf8", "he\xff", "UTF-8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dec, err := run(t, newTestCompleter(t), cfg, Request{ID: "x", Prefix: tt.prefix})
			require.NoError(t, err)

			var resp CompletionError
			require.NoError(t, dec.Decode(&resp))
			assert.Equal(t, "x", resp.ID)
			assert.Equal(t, 400, resp.Code)
			assert.Contains(t, resp.Error, tt.wantErr)
		})
	}
}

func TestCompleteLimitCapped(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Server.MaxLimit = 2

	dec, err := run(t, newTestCompleter(t), cfg, Request{ID: "1", Prefix: "he", Limit: 50})
	require.NoError(t, err)

	var resp CompletionResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, 2, resp.Count)
}

func TestCompleteFiltered(t *testing.T) {
	c := newTestCompleter(t)
	_, err := c.AddWord("1234", 10)
	require.NoError(t, err)
	_, err = c.AddWord("12345", 10)
	require.NoError(t, err)

	dec, err := run(t, c, nil, Request{ID: "1", Prefix: "1234"})
	require.NoError(t, err)
	var resp CompletionResponse
	require.NoError(t, dec.Decode(&resp))
	assert.Zero(t, resp.Count)
	assert.Empty(t, resp.Suggestions)

	cfg := config.DefaultConfig()
	cfg.Server.EnableFilter = false
	dec, err = run(t, c, cfg, Request{ID: "2", Prefix: "1234"})
	require.NoError(t, err)
	require.NoError(t, dec.Decode(&resp))
	assert.Equal(t, 1, resp.Count)
	assert.Equal(t, "12345", resp.Suggestions[0].Word)
}

func TestInsertThenComplete(t *testing.T) {
	dec, err := run(t, newTestCompleter(t), nil,
		Request{ID: "1", Action: ActionInsert, Word: "helium", Count: 60},
		Request{ID: "2", Action: ActionInsert, Word: "helium", Count: 60},
		Request{ID: "3", Prefix: "hel", Limit: 2},
		Request{ID: "4", Action: ActionInsert, Word: ""},
	)
	require.NoError(t, err)

	var ack AckResponse
	require.NoError(t, dec.Decode(&ack))
	assert.Equal(t, AckResponse{ID: "1", Status: "ok", Count: 60}, ack)
	require.NoError(t, dec.Decode(&ack))
	assert.Equal(t, AckResponse{ID: "2", Status: "ok", Count: 120}, ack)

	var resp CompletionResponse
	require.NoError(t, dec.Decode(&resp))
	require.Len(t, resp.Suggestions, 2)
	assert.Equal(t, "helium", resp.Suggestions[0].Word)
	assert.Equal(t, "help", resp.Suggestions[1].Word)

	var errResp CompletionError
	require.NoError(t, dec.Decode(&errResp))
	assert.Equal(t, "4", errResp.ID)
	assert.Equal(t, 400, errResp.Code)
}

func TestStatsPingAndUnknown(t *testing.T) {
	dec, err := run(t, newTestCompleter(t), nil,
		Request{ID: "1", Action: ActionStats},
		Request{ID: "2", Action: ActionPing},
		Request{ID: "3", Action: "reload"},
		Request{ID: "4", Action: ActionMore, Count: 100},
		Request{ID: "5", Action: ActionMore},
	)
	require.NoError(t, err)

	var stats StatsResponse
	require.NoError(t, dec.Decode(&stats))
	assert.Equal(t, "1", stats.ID)
	assert.Equal(t, 4, stats.Stats["totalWords"])
	assert.Equal(t, 90, stats.Stats["maxFrequency"])

	var ack AckResponse
	require.NoError(t, dec.Decode(&ack))
	assert.Equal(t, AckResponse{ID: "2", Status: "ok"}, ack)

	var errResp CompletionError
	require.NoError(t, dec.Decode(&errResp))
	assert.Equal(t, "3", errResp.ID)
	assert.Contains(t, errResp.Error, "unknown action")

	require.NoError(t, dec.Decode(&ack))
	assert.Equal(t, AckResponse{ID: "4", Status: "ok"}, ack)

	require.NoError(t, dec.Decode(&errResp))
	assert.Equal(t, "5", errResp.ID)
}

func TestSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")
	cfg := config.DefaultConfig()
	cfg.Dict.Separator = ","

	dec, err := run(t, newTestCompleter(t), cfg,
		Request{ID: "1", Action: ActionSave, Path: path},
		Request{ID: "2", Action: ActionSave},
	)
	require.NoError(t, err)

	var ack AckResponse
	require.NoError(t, dec.Decode(&ack))
	assert.Equal(t, "ok", ack.Status)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "help,90\nhello,40\nhelmet,10\nworld,5\n", string(data))

	var errResp CompletionError
	require.NoError(t, dec.Decode(&errResp))
	assert.Equal(t, "missing path", errResp.Error)
}

func TestMalformedInputStops(t *testing.T) {
	var out bytes.Buffer
	srv := NewServerWithIO(newTestCompleter(t), nil, strings.NewReader("\xc1garbage"), &out)

	err := srv.Start()
	require.Error(t, err)

	var errResp CompletionError
	require.NoError(t, msgpack.NewDecoder(&out).Decode(&errResp))
	assert.Equal(t, 400, errResp.Code)
}

func TestEmptyInput(t *testing.T) {
	var out bytes.Buffer
	srv := NewServerWithIO(newTestCompleter(t), nil, strings.NewReader(""), &out)
	require.NoError(t, srv.Start())
	assert.Zero(t, out.Len())
}
