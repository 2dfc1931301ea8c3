package relay

import "strings"

// Subjects are the choices offered by the contact form.
var Subjects = []string{
	"General Inquiry",
	"Database Question",
	"Submission Issue",
	"Collaboration Proposal",
	"Bug Report",
	"Feature Request",
	"Other",
}

// ContactMessage is a message for the curators. It is acknowledged but not
// forwarded anywhere.
type ContactMessage struct {
	Name    string `form:"name" json:"name"`
	Email   string `form:"email" json:"email"`
	Subject string `form:"subject" json:"subject"`
	Message string `form:"message" json:"message"`
}

func (m ContactMessage) Validate() error {
	var messages []string
	if strings.TrimSpace(m.Name) == "" {
		messages = append(messages, "Name is required.")
	}
	email := strings.TrimSpace(m.Email)
	if email == "" {
		messages = append(messages, "Email is required.")
	} else if !strings.Contains(email, "@") {
		messages = append(messages, "Please enter a valid email address.")
	}
	if !validSubject(m.Subject) {
		messages = append(messages, "Please choose a subject.")
	}
	message := strings.TrimSpace(m.Message)
	if message == "" {
		messages = append(messages, "Message is required.")
	} else if len([]rune(message)) > 2000 {
		messages = append(messages, "Message must be at most 2000 characters.")
	}
	if len(messages) > 0 {
		return &ValidationError{Messages: messages}
	}
	return nil
}

func validSubject(subject string) bool {
	for _, s := range Subjects {
		if s == subject {
			return true
		}
	}
	return false
}
