package prompts

import (
	"encoding/json"
	"fmt"

	"github.com/jonathan/resume-chat/internal/types"
)

// ChatSystemInstruction returns the system instruction of the chat model.
func ChatSystemInstruction() string {
	return MustGet(KeyChatSystem)
}

// ConversationExtractionPrompt builds the prompt that turns a conversation window and the
// current document into a full replacement document. The profile picture is left out:
// it is restored locally after extraction.
func ConversationExtractionPrompt(history []types.ChatMessage, current *types.ResumeDocument) (string, error) {
	snapshot := current.Clone()
	if snapshot != nil {
		snapshot.PersonalInfo.ImageURL = ""
	}

	currentJSON, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal current resume: %w", err)
	}
	historyJSON, err := json.MarshalIndent(history, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal chat history: %w", err)
	}

	return build(KeyExtractConversation, map[string]string{
		"CurrentResume": string(currentJSON),
		"ChatHistory":   string(historyJSON),
		"Schema":        MustGet(KeyResumeStructure),
	})
}

// FileExtractionPrompt builds the prompt sent alongside an uploaded resume file.
func FileExtractionPrompt() (string, error) {
	return build(KeyExtractFile, map[string]string{
		"Schema": MustGet(KeyResumeStructure),
	})
}
