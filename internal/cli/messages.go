package cli

import (
	"fmt"

	"github.com/roach88/contactbook/internal/store"
)

// User-facing messages shared by the menu and the one-shot commands.
const (
	msgAdded         = "Contact added successfully!"
	msgUpdated       = "Contact updated successfully!"
	msgRemoved       = "Contact removed successfully!"
	msgInvalidEmail  = "Please enter valid email"
	msgInvalidPhone  = "Please enter valid phone"
	msgUnknownField  = "Please enter a valid field (username/email/phone/address)"
	msgNoMatch       = "No contact with that name."
	msgBackupFailed  = "Sorry, some error happened when backing up"
	msgNoContacts    = "No contacts."
	msgGoodbye       = "Thank you for using the Contact Book!"
	msgInvalidChoice = "Invalid choice. Please try again."
)

// userMessage turns a store error into the text shown to the user. Backup
// failures share one message; the failed stage is in the log.
func userMessage(err error, path string) string {
	switch store.Code(err) {
	case store.CodeInvalidEmail:
		return msgInvalidEmail
	case store.CodeInvalidPhone:
		return msgInvalidPhone
	case store.CodeNotFound:
		return fmt.Sprintf("Sorry, the file %s does not exist.", path)
	case store.CodeNoMatch:
		return msgNoMatch
	case store.CodeUnknownField:
		return msgUnknownField
	case store.CodeBackupFailed, store.CodeRemoteBackupFailed:
		return msgBackupFailed
	}
	return "Error: " + err.Error()
}

// fail reports a store error in the configured format and returns the
// matching ExitError. Text output is left to the caller of Execute.
func fail(out *OutputFormatter, err error, path string) error {
	msg := userMessage(err, path)
	if out.Structured() {
		details := map[string]string{"error": err.Error()}
		if stage, ok := store.BackupStage(err); ok {
			details["stage"] = string(stage)
		}
		if ferr := out.Error(store.Code(err), msg, details); ferr != nil {
			return ferr
		}
	}
	return WrapExitError(exitCodeFor(err), msg, err)
}
