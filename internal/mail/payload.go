// Package mail builds SendGrid v3 mail/send request payloads from the
// generic email message type. Building is pure: no I/O, deterministic
// output for a given message.
package mail

// The wire structs below mirror the v3 mail/send body exactly. Optional keys
// use omitempty (or pointer types) so that absent means absent, never null
// or an empty collection.

// Payload is the top-level mail/send request body.
type Payload struct {
	Personalizations []Personalization `json:"personalizations"`
	From             EmailAddress      `json:"from"`
	Subject          string            `json:"subject,omitempty"`
	Content          []Content         `json:"content,omitempty"`
	Attachments      []UploadedFile    `json:"attachments,omitempty"`
	TemplateID       string            `json:"template_id,omitempty"`
	Headers          map[string]string `json:"headers,omitempty"`
	ReplyTo          *EmailAddress     `json:"reply_to,omitempty"`
	ASM              *ASM              `json:"asm,omitempty"`
	MailSettings     *MailSettings     `json:"mail_settings,omitempty"`
}

// Personalization groups recipients, substitutions and custom args for one
// logical send. This adapter always produces exactly one.
type Personalization struct {
	To            []EmailAddress    `json:"to,omitempty"`
	CC            []EmailAddress    `json:"cc,omitempty"`
	BCC           []EmailAddress    `json:"bcc,omitempty"`
	Substitutions map[string]string `json:"substitutions,omitempty"`
	CustomArgs    map[string]string `json:"custom_args,omitempty"`
}

// EmailAddress is a recipient or sender entry. Name is omitted when the
// address has no display name.
type EmailAddress struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

// Content is one body entry, e.g. {"type":"text/plain","value":"..."}.
type Content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// UploadedFile is one attachment entry with base64-encoded content.
type UploadedFile struct {
	Type     string `json:"type"`
	Filename string `json:"filename"`
	Content  string `json:"content"`
}

// ASM carries the unsubscribe group assignment.
type ASM struct {
	GroupID int `json:"group_id"`
}

// MailSettings collects the mail_settings switches. Sandbox mode and list
// management bypass are independent and may coexist under the same object.
type MailSettings struct {
	SandboxMode          *Setting `json:"sandbox_mode,omitempty"`
	BypassListManagement *Setting `json:"bypass_list_management,omitempty"`
}

// Setting is the {"enable": bool} wrapper used by mail_settings entries.
type Setting struct {
	Enable bool `json:"enable"`
}
