package chat

import "fmt"

// Fixed transcript entries written by the controller
const (
	// ExtractionFailedMessage replaces the model reply when the document could not be updated.
	ExtractionFailedMessage = "I understood your request, but I ran into an error applying the data to your resume. Let's try that one more time."
	// NetworkErrorMessage is appended when a send fails unexpectedly.
	NetworkErrorMessage = "I encountered a network error. Let's try that again."

	ImportSuccessMessage    = "I've successfully scanned your uploaded resume and populated the fields! Let me know if you want to tweak anything."
	ImportUnreadableMessage = "I had some trouble reading that document. Could you try a different file, or we can just continue building it here?"
	ImportErrorMessage      = "There was an error processing your file. Please try again."

	// GreetingPrompt is sent on behalf of the user to open a new conversation.
	GreetingPrompt = "Hello"
)

// ImportPlaceholder is the transcript entry recorded for an uploaded resume.
func ImportPlaceholder(fileName string) string {
	return fmt.Sprintf("[Uploaded Resume: %s]", fileName)
}
