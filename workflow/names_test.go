package workflow_test

import (
	"regexp"
	"strings"
	"testing"

	"github.com/JaimeStill/foundry/workflow"
)

var agentNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]{0,99}$`)

func TestSanitizeAgentName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			"clean name unchanged",
			"Agent-Bot-12345678",
			"Agent-Bot-12345678",
		},
		{
			"special characters stripped",
			"Agent-Bot!!-123",
			"Agent-Bot-123",
		},
		{
			"spaces stripped",
			"My Cool Bot",
			"MyCoolBot",
		},
		{
			"all invalid falls back",
			"!!!@@@###",
			"Agent",
		},
		{
			"empty falls back",
			"",
			"Agent",
		},
		{
			"leading hyphen prefixed",
			"-bot",
			"A-bot",
		},
		{
			"leading underscore prefixed",
			"_bot",
			"A_bot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := workflow.SanitizeAgentName(tt.input)
			if got != tt.want {
				t.Errorf("SanitizeAgentName(%q) = %q, want %q", tt.input, got, tt.want)
			}
			if !agentNamePattern.MatchString(got) {
				t.Errorf("result %q does not match the accepted name pattern", got)
			}
		})
	}
}

func TestSanitizeAgentNameCapsLength(t *testing.T) {
	long := strings.Repeat("a", 150)

	got := workflow.SanitizeAgentName(long)

	if len(got) != 100 {
		t.Errorf("expected 100 characters, got %d", len(got))
	}
	if !agentNamePattern.MatchString(got) {
		t.Errorf("result does not match the accepted name pattern")
	}
}

func TestDeriveAgentName(t *testing.T) {
	got := workflow.DeriveAgentName("Bot!!")

	if !strings.HasPrefix(got, "Agent-Bot-") {
		t.Errorf("expected Agent-Bot- prefix, got %q", got)
	}
	if !agentNamePattern.MatchString(got) {
		t.Errorf("result %q does not match the accepted name pattern", got)
	}
}

func TestDeriveAgentNameEmptyBase(t *testing.T) {
	got := workflow.DeriveAgentName("")

	if !strings.HasPrefix(got, "Agent-Agent-") {
		t.Errorf("expected fallback base, got %q", got)
	}
}

func TestEnsureInstruction(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"short", "Be helpful."},
		{"ten characters", "answer faq"},
		{"long enough", "You are a support assistant for enterprise customers of this product."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := workflow.EnsureInstruction(tt.input)
			if len(got) < 40 {
				t.Errorf("instruction length %d, want >= 40", len(got))
			}
			if tt.input != "" && !strings.HasPrefix(got, tt.input) {
				t.Errorf("expected original instruction preserved, got %q", got)
			}
		})
	}
}

func TestCollectionName(t *testing.T) {
	got := workflow.CollectionName("c1")

	if !strings.HasPrefix(got, "kb-") {
		t.Errorf("expected kb- prefix, got %q", got)
	}
	if len(got) != len("kb-ab12-cd34") {
		t.Errorf("unexpected length for %q", got)
	}

	// Hash segment is stable per chatbot; entropy segment is not.
	again := workflow.CollectionName("c1")
	if got[:7] != again[:7] {
		t.Errorf("expected stable hash segment: %q vs %q", got, again)
	}
	if got == again {
		t.Errorf("expected distinct names for repeated derivation")
	}
}

func TestKnowledgeBaseName(t *testing.T) {
	tests := []struct {
		name      string
		chatbotID string
		want      string
	}{
		{"short id", "c1", "KB-c1"},
		{"exactly twenty", strings.Repeat("a", 20), "KB-" + strings.Repeat("a", 20)},
		{"truncated", strings.Repeat("a", 30), "KB-" + strings.Repeat("a", 20)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := workflow.KnowledgeBaseName(tt.chatbotID); got != tt.want {
				t.Errorf("KnowledgeBaseName(%q) = %q, want %q", tt.chatbotID, got, tt.want)
			}
		})
	}
}

func TestAliasName(t *testing.T) {
	if got := workflow.AliasName("Support Bot"); got != "Alias-Support Bot" {
		t.Errorf("AliasName = %q", got)
	}
}
