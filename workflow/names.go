package workflow

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Naming defaults applied when the tenant record omits a value.
const (
	FallbackAgentName      = "Agent"
	DefaultFoundationModel = "anthropic.claude-v2"
	DefaultSessionTimeout  = 1800
	DefaultInstruction     = "You are a helpful AI assistant. Please provide accurate and relevant information to user queries."

	instructionFiller    = " Please assist users to the best of your ability."
	minInstructionLength = 40
	maxAgentNameLength   = 100
	maxKBNameIDLength    = 20
)

// SanitizeAgentName strips a candidate name down to alphanumeric, underscore,
// and hyphen characters, forces an alphanumeric first character, and caps the
// length at 100. An input with no usable characters yields the fallback
// literal. The result always matches ^[A-Za-z0-9][A-Za-z0-9_-]{0,99}$.
func SanitizeAgentName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if isAlnum(r) || r == '_' || r == '-' {
			b.WriteRune(r)
		}
	}

	sanitized := b.String()
	if sanitized == "" {
		return FallbackAgentName
	}

	if !isAlnum(rune(sanitized[0])) {
		sanitized = "A" + sanitized
	}

	if len(sanitized) > maxAgentNameLength {
		sanitized = sanitized[:maxAgentNameLength]
	}

	return sanitized
}

// DeriveAgentName builds the sanitized agent name from the chatbot's display
// name plus a short uniqueness suffix.
func DeriveAgentName(base string) string {
	if base == "" {
		base = FallbackAgentName
	}
	suffix := uuid.New().String()[:8]
	return SanitizeAgentName(fmt.Sprintf("Agent-%s-%s", base, suffix))
}

// EnsureInstruction pads an instruction below the minimum accepted length
// with a filler clause. Empty instructions receive the default wholesale.
func EnsureInstruction(instruction string) string {
	if instruction == "" {
		instruction = DefaultInstruction
	}
	if len(instruction) < minInstructionLength {
		instruction += instructionFiller
	}
	return instruction
}

// CollectionName derives a collision-resistant collection name from the
// chatbot id: a short hash of the id for stability plus random characters
// to keep concurrent executions from colliding. Uniqueness here is
// non-adversarial; the derivation space is deliberately small.
func CollectionName(chatbotID string) string {
	sum := md5.Sum([]byte(chatbotID))
	short := hex.EncodeToString(sum[:])[:4]
	entropy := uuid.New().String()[:4]
	return fmt.Sprintf("kb-%s-%s", short, entropy)
}

// KnowledgeBaseName derives the length-capped knowledge base name.
func KnowledgeBaseName(chatbotID string) string {
	id := chatbotID
	if len(id) > maxKBNameIDLength {
		id = id[:maxKBNameIDLength]
	}
	return "KB-" + id
}

// AliasName derives the agent alias name from the chatbot's display name.
func AliasName(chatbotName string) string {
	return "Alias-" + chatbotName
}

func isAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}
