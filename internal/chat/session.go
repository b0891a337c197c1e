// Package chat implements the conversational question-answering session as a
// pure state machine, kept free of terminal I/O so it can be driven by the
// TUI, the plain loop, or tests alike.
package chat

import (
	"context"
	"fmt"
	"strings"

	"pubmedrag/internal/domain"
	"pubmedrag/internal/retriever"
)

// State is the session's position in the conversation.
type State int

const (
	// StateAwaitingQuery waits for a fresh top-level research question.
	StateAwaitingQuery State = iota
	// StateAwaitingFollowUp waits for follow-up questions against the
	// current paper context.
	StateAwaitingFollowUp
	// StateTerminated is the only terminal state.
	StateTerminated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateAwaitingQuery:
		return "awaiting-query"
	case StateAwaitingFollowUp:
		return "awaiting-follow-up"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}

// User-facing session messages.
const (
	EmptyInputMessage = "Please enter a question."
	GoodbyeMessage    = "Ending session. Goodbye."
)

// exitTokens end the session from any prompting state, case-insensitively.
var exitTokens = map[string]struct{}{
	"exit": {},
	"quit": {},
	"back": {},
}

// Reply is the outcome of one conversational turn.
type Reply struct {
	// Text is the user-visible output for this turn.
	Text string
	// Papers is set when this turn established a new session context.
	Papers []domain.Paper
	// Done reports that the session reached its terminal state.
	Done bool
}

// Session holds the conversation state and the papers currently in focus.
// Follow-up questions are answered against the same context without
// re-retrieval; the context is discarded with the session.
type Session struct {
	state     State
	papers    []domain.Paper
	retriever domain.Retriever
	synth     domain.Synthesizer
	topK      int
}

// NewSession creates a session that starts by retrieving context for a fresh
// query.
func NewSession(ret domain.Retriever, synth domain.Synthesizer, topK int) *Session {
	if topK <= 0 {
		topK = retriever.DefaultTopK
	}
	return &Session{state: StateAwaitingQuery, retriever: ret, synth: synth, topK: topK}
}

// NewSeededSession creates a session whose context is preloaded (papers from
// a file or the session cache); it starts directly in follow-up mode.
func NewSeededSession(synth domain.Synthesizer, papers []domain.Paper) *Session {
	return &Session{state: StateAwaitingFollowUp, papers: papers, synth: synth}
}

// State returns the current state.
func (s *Session) State() State { return s.state }

// Papers returns the papers currently in focus.
func (s *Session) Papers() []domain.Paper { return s.papers }

// Handle advances the session by one turn. Recoverable failures (failed
// retrieval, empty results, endpoint trouble) come back as message text and
// the session stays usable; only exit tokens terminate it.
func (s *Session) Handle(ctx context.Context, input string) Reply {
	input = strings.TrimSpace(input)

	switch s.state {
	case StateAwaitingQuery:
		return s.handleQuery(ctx, input)
	case StateAwaitingFollowUp:
		return s.handleFollowUp(ctx, input)
	default:
		return Reply{Done: true}
	}
}

func (s *Session) handleQuery(ctx context.Context, input string) Reply {
	if input == "" {
		return Reply{Text: EmptyInputMessage}
	}
	if isExit(input) {
		s.state = StateTerminated
		return Reply{Text: GoodbyeMessage, Done: true}
	}

	papers, err := s.retriever.Retrieve(ctx, input, s.topK)
	if err != nil {
		return Reply{Text: fmt.Sprintf("Retrieval failed: %v", err)}
	}
	if len(papers) == 0 {
		return Reply{Text: fmt.Sprintf("No relevant papers found for: %s", input)}
	}

	s.papers = papers
	s.state = StateAwaitingFollowUp

	answer, err := s.synth.Synthesize(ctx, input, papers)
	if err != nil {
		answer = fmt.Sprintf("Answer generation failed: %v", err)
	}
	return Reply{Text: answer, Papers: papers}
}

func (s *Session) handleFollowUp(ctx context.Context, input string) Reply {
	if input == "" {
		return Reply{Text: EmptyInputMessage}
	}
	if isExit(input) {
		s.state = StateTerminated
		return Reply{Text: GoodbyeMessage, Done: true}
	}

	answer, err := s.synth.Synthesize(ctx, input, s.papers)
	if err != nil {
		answer = fmt.Sprintf("Answer generation failed: %v", err)
	}
	return Reply{Text: answer}
}

func isExit(input string) bool {
	_, ok := exitTokens[strings.ToLower(input)]
	return ok
}
