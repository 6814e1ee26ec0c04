package intent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"strings"
	"testing"

	"github.com/raqiba/Weather-ChatBot/internal/chat"
)

type stubLLM struct {
	reply   string
	err     error
	calls   int
	prompts []string
}

func (s *stubLLM) Generate(_ context.Context, prompt string) (string, error) {
	s.calls++
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

func newTestClassifier(llm *stubLLM) *Classifier {
	return NewClassifier(llm, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestClassify_Success(t *testing.T) {
	llm := &stubLLM{reply: `{"action":"current_weather","parameters":{"city":"Paris"}}`}

	d := newTestClassifier(llm).Classify(context.Background(), "What's the weather in Paris?", nil)
	if d.Action != ActionCurrentWeather {
		t.Fatalf("unexpected action: %q", d.Action)
	}
	if d.Location() != "Paris" {
		t.Fatalf("unexpected location: %q", d.Location())
	}
	if llm.calls != 1 {
		t.Fatalf("expected exactly one LLM call, got %d", llm.calls)
	}
}

func TestClassify_HistoryNotEmbedded(t *testing.T) {
	llm := &stubLLM{reply: `{"action":"general","parameters":{}}`}
	history := []chat.Message{{Role: chat.RoleUser, Content: "secret-earlier-turn"}}

	newTestClassifier(llm).Classify(context.Background(), "hello", history)
	if strings.Contains(llm.prompts[0], "secret-earlier-turn") {
		t.Fatal("history should not be embedded in the classification prompt")
	}
}

func TestClassify_FencedEqualsUnfenced(t *testing.T) {
	body := `{"action":"forecast","parameters":{"city":"Tokyo","days":3}}`

	plain := newTestClassifier(&stubLLM{reply: body}).Classify(context.Background(), "q", nil)
	fenced := newTestClassifier(&stubLLM{reply: "```json\n" + body + "\n```"}).Classify(context.Background(), "q", nil)
	bare := newTestClassifier(&stubLLM{reply: "```\n" + body + "\n```"}).Classify(context.Background(), "q", nil)

	if !reflect.DeepEqual(plain, fenced) || !reflect.DeepEqual(plain, bare) {
		t.Fatalf("fenced and unfenced replies differ: %+v / %+v / %+v", plain, fenced, bare)
	}
	if days, ok := plain.Days(); !ok || days != 3 {
		t.Fatalf("unexpected days: %d %v", days, ok)
	}
}

func TestClassify_UnparseableYieldsDefault(t *testing.T) {
	replies := []string{
		"not json at all",
		"",
		"[1,2,3]",
		"null",
		`{"action":"forecast","parameters":"Paris"}`,
		`{"action":"forecast","parameters":["Paris"]}`,
		`{"action": "forecast",`,
	}
	for _, reply := range replies {
		d := newTestClassifier(&stubLLM{reply: reply}).Classify(context.Background(), "q", nil)
		if !reflect.DeepEqual(d, Default()) {
			t.Fatalf("reply %q: expected default, got %+v", reply, d)
		}
	}
}

func TestClassify_LLMErrorYieldsDefault(t *testing.T) {
	llm := &stubLLM{err: errors.New("connection reset")}

	d := newTestClassifier(llm).Classify(context.Background(), "q", nil)
	if !reflect.DeepEqual(d, Default()) {
		t.Fatalf("expected default, got %+v", d)
	}
}

func TestDecode_UnknownActionKeepsParams(t *testing.T) {
	d, err := Decode(`{"action":"alerts","parameters":{"city":"Oslo"}}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Action != ActionGeneral {
		t.Fatalf("expected general, got %q", d.Action)
	}
	if d.Location() != "Oslo" {
		t.Fatalf("expected params kept, got %+v", d.Params)
	}
}

func TestDecode_MissingActionAndParams(t *testing.T) {
	d, err := Decode(`{}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(d, Default()) {
		t.Fatalf("expected default, got %+v", d)
	}

	d, err = Decode(`{"action":7,"parameters":null}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d.Action != ActionGeneral || len(d.Params) != 0 {
		t.Fatalf("unexpected descriptor: %+v", d)
	}
}

func TestDecode_ErrDecode(t *testing.T) {
	_, err := Decode("nope")
	if !errors.Is(err, ErrDecode) {
		t.Fatalf("expected ErrDecode, got: %v", err)
	}
}

func TestSanitize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no fences", `{"action":"general"}`, `{"action":"general"}`},
		{"json fence", "```json\n{\"action\":\"general\"}\n```", `{"action":"general"}`},
		{"bare fence", "```\n{\"action\":\"general\"}\n```", `{"action":"general"}`},
		{"surrounding prose", `Sure! {"action":"general"} Hope that helps.`, `{"action":"general"}`},
		{"whitespace", "  \n{\"a\":1}\n  ", `{"a":1}`},
		{"no braces", "hello", "hello"},
		{"reversed braces", "} {", "} {"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Sanitize(tt.in); got != tt.want {
				t.Fatalf("Sanitize(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDescriptor_Location(t *testing.T) {
	tests := []struct {
		params map[string]any
		want   string
	}{
		{map[string]any{"city": " Paris "}, "Paris"},
		{map[string]any{"location": "Lima"}, "Lima"},
		{map[string]any{"city": "", "location": "Lima"}, "Lima"},
		{map[string]any{"city": 42}, ""},
		{nil, ""},
	}
	for _, tt := range tests {
		if got := (Descriptor{Params: tt.params}).Location(); got != tt.want {
			t.Fatalf("Location(%v) = %q, want %q", tt.params, got, tt.want)
		}
	}
}

func TestDescriptor_Days(t *testing.T) {
	tests := []struct {
		v      any
		want   int
		wantOK bool
	}{
		{3.0, 3, true},
		{7, 7, true},
		{"4", 4, true},
		{"four", 0, false},
		{nil, 0, false},
	}
	for _, tt := range tests {
		got, ok := (Descriptor{Params: map[string]any{"days": tt.v}}).Days()
		if got != tt.want || ok != tt.wantOK {
			t.Fatalf("Days(%v) = %d, %v; want %d, %v", tt.v, got, ok, tt.want, tt.wantOK)
		}
	}
}
