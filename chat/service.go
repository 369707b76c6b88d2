package chat

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"github.com/fabfab/doc-chat/docsource"
	"github.com/fabfab/doc-chat/llm"
)

const welcomeFormat = "¡Hola! Ahora estás chateando con la documentación de '%s'. ¿En qué puedo ayudarte?"

// Service drives the conversation state machine. All three transitions
// (scope change, suggestion load, turn) run to completion on the caller's
// goroutine; nothing here retries or runs in the background.
type Service struct {
	groups   []docsource.Group
	resolver docsource.Resolver
	llm      llm.Client
	logger   *log.Logger
}

// NewService wires the pipeline. llmClient may be nil when generation is
// not configured; the service then skips suggestion loads and answers with
// an inline error instead of calling out.
func NewService(groups []docsource.Group, resolver docsource.Resolver, llmClient llm.Client, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}

	return &Service{
		groups:   groups,
		resolver: resolver,
		llm:      llmClient,
		logger:   logger,
	}
}

func (s *Service) Groups() []docsource.Group {
	return s.groups
}

func (s *Service) GroupByID(id string) (docsource.Group, bool) {
	for _, g := range s.groups {
		if g.ID == id {
			return g, true
		}
	}
	return docsource.Group{}, false
}

// GenerationConfigured reports whether a generation client is available.
func (s *Service) GenerationConfigured() bool {
	return s.llm != nil
}

// ResolveGroup exposes corpus resolution for inspection tooling.
func (s *Service) ResolveGroup(ctx context.Context, group docsource.Group) docsource.Corpus {
	return s.resolver.Resolve(ctx, group)
}

// NewSession starts a session on the first group of the catalog and runs
// the state machine until it settles.
func (s *Service) NewSession(ctx context.Context) *Session {
	sess := &Session{ID: uuid.NewString()}
	if len(s.groups) > 0 {
		sess.ActiveGroupID = s.groups[0].ID
	}
	s.Sync(ctx, sess)
	return sess
}

// SelectGroup switches the active knowledge scope and re-runs the state
// machine, which reseeds the transcript and reloads suggestions.
func (s *Service) SelectGroup(ctx context.Context, sess *Session, groupID string) error {
	if _, ok := s.GroupByID(groupID); !ok {
		return fmt.Errorf("unknown group: %s", groupID)
	}
	sess.ActiveGroupID = groupID
	s.Sync(ctx, sess)
	return nil
}

// Sync re-evaluates the transition guards until none fires, so derived
// state is settled before the session accepts new input.
func (s *Service) Sync(ctx context.Context, sess *Session) {
	for {
		switch {
		case sess.ActiveGroupID != sess.LastLoadedGroupID:
			s.enterScope(ctx, sess)
		case s.shouldLoadSuggestions(sess):
			s.loadSuggestions(ctx, sess)
		default:
			return
		}
	}
}

// enterScope handles a scope change: reseed the transcript with a single
// welcome turn, drop stale suggestions, and record the new cursor. When
// the scope's content cannot be resolved the transcript stays empty and
// the session sits in its warning state.
func (s *Service) enterScope(ctx context.Context, sess *Session) {
	sess.LastLoadedGroupID = sess.ActiveGroupID
	sess.Suggestions = nil
	sess.Asked = false
	sess.suggestionsTried = false

	group, ok := s.GroupByID(sess.ActiveGroupID)
	if !ok {
		sess.Messages = nil
		sess.ContentLoaded = false
		return
	}

	corpus := s.resolver.Resolve(ctx, group)
	if !corpus.OK {
		sess.Messages = nil
		sess.ContentLoaded = false
		return
	}

	sess.ContentLoaded = true
	sess.Messages = []Message{{
		Role:    RoleAssistant,
		Content: fmt.Sprintf(welcomeFormat, group.Name),
	}}
}

func (s *Service) shouldLoadSuggestions(sess *Session) bool {
	return len(sess.Suggestions) == 0 &&
		s.llm != nil &&
		!sess.Asked &&
		!sess.suggestionsTried &&
		sess.ContentLoaded
}

// loadSuggestions populates the suggestion set once per scope. Failures
// degrade to an empty set; suggestions are enrichment, not the contract.
func (s *Service) loadSuggestions(ctx context.Context, sess *Session) {
	sess.suggestionsTried = true

	group, ok := s.GroupByID(sess.ActiveGroupID)
	if !ok {
		return
	}

	corpus := s.resolver.Resolve(ctx, group)
	if !corpus.OK || len(corpus.Names) == 0 {
		return
	}

	raw, err := s.llm.Generate(ctx, BuildSuggestionPrompt(corpus.Names))
	if err != nil {
		s.logger.Printf("generate suggestions for %s: %v", group.ID, err)
		return
	}

	sess.Suggestions = ParseSuggestions(raw)
}

// Ask runs a full turn: the suggestion set is cleared for good, the user
// turn is appended, and the assistant turn carries either the model answer
// or an inline error. The transcript always grows by exactly two.
func (s *Service) Ask(ctx context.Context, sess *Session, question string) Message {
	s.Sync(ctx, sess)

	sess.Suggestions = nil
	sess.Asked = true
	sess.Messages = append(sess.Messages, Message{Role: RoleUser, Content: question})

	reply := Message{Role: RoleAssistant, Content: s.answer(ctx, sess, question)}
	sess.Messages = append(sess.Messages, reply)
	return reply
}

func (s *Service) answer(ctx context.Context, sess *Session, question string) string {
	if s.llm == nil {
		return "Error al generar la respuesta: el cliente de generación no está configurado."
	}

	group, ok := s.GroupByID(sess.ActiveGroupID)
	if !ok {
		return fmt.Sprintf("Error al generar la respuesta: grupo desconocido %q.", sess.ActiveGroupID)
	}

	corpus := s.resolver.Resolve(ctx, group)
	text, err := s.llm.Generate(ctx, BuildAnswerPrompt(corpus.ContextBlock(), question))
	if err != nil {
		s.logger.Printf("generate answer for %s: %v", group.ID, err)
		return fmt.Sprintf("Error al generar la respuesta: %v", err)
	}

	return strings.TrimSpace(text)
}
