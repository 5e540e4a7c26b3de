package ai

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"property-ops/logging"
	"property-ops/model"
)

const analystSystemPrompt = "You review the audit trail of a property operations team. " +
	"Summarise notable activity and anything that looks unusual in at most five short bullet points."

type AuditReader interface {
	Recent(ctx context.Context, limit int) ([]model.AuditLog, error)
}

type ActionCount struct {
	Action string `json:"action"`
	Count  int    `json:"count"`
}

type AuditAnalysis struct {
	Entries int           `json:"entries"`
	Actions []ActionCount `json:"actions"`
	Actors  int           `json:"actors"`
	Summary string        `json:"summary"`
	Source  string        `json:"source"`
}

type AuditAnalyst struct {
	audit AuditReader
	llm   Completer
}

func NewAuditAnalyst(audit AuditReader, llm Completer) *AuditAnalyst {
	return &AuditAnalyst{audit: audit, llm: llm}
}

func (a *AuditAnalyst) Analyze(ctx context.Context, limit int) (AuditAnalysis, error) {
	entries, err := a.audit.Recent(ctx, limit)
	if err != nil {
		return AuditAnalysis{}, fmt.Errorf("cannot load audit logs: %w", err)
	}

	analysis := CountActions(entries)
	analysis.Summary = heuristicSummary(analysis)
	analysis.Source = SourceHeuristic
	if a.llm == nil || len(entries) == 0 {
		return analysis, nil
	}

	text, err := a.llm.Complete(ctx, analystSystemPrompt, describeAudit(entries))
	if err != nil {
		logging.FromContext(ctx).WithError(err).Warn("AI audit analysis unavailable, using action counts")
		return analysis, nil
	}
	analysis.Summary = text
	analysis.Source = SourceLLM
	return analysis, nil
}

// CountActions groups entries by action, most frequent first.
func CountActions(entries []model.AuditLog) AuditAnalysis {
	byAction := map[string]int{}
	actors := map[string]struct{}{}
	for _, e := range entries {
		byAction[e.Action]++
		actors[e.Actor] = struct{}{}
	}
	counts := make([]ActionCount, 0, len(byAction))
	for action, n := range byAction {
		counts = append(counts, ActionCount{Action: action, Count: n})
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}
		return counts[i].Action < counts[j].Action
	})
	return AuditAnalysis{Entries: len(entries), Actions: counts, Actors: len(actors)}
}

func heuristicSummary(a AuditAnalysis) string {
	if a.Entries == 0 {
		return "No audit activity recorded."
	}
	parts := make([]string, 0, len(a.Actions))
	for _, c := range a.Actions {
		parts = append(parts, fmt.Sprintf("%s x%d", c.Action, c.Count))
	}
	return fmt.Sprintf("%d entries by %d actor(s): %s", a.Entries, a.Actors, strings.Join(parts, ", "))
}

func describeAudit(entries []model.AuditLog) string {
	var sb strings.Builder
	for _, e := range entries {
		fmt.Fprintf(&sb, "%s %s %s %s/%s\n", e.CreatedAt.Format("2006-01-02T15:04"), e.Actor, e.Action, e.Entity, e.EntityId)
	}
	return sb.String()
}
