package core

import (
	"mime"
	"net/textproto"
	"path/filepath"
	"strings"
)

// Address represents an email address with optional display name.
type Address struct {
	Name  string `json:"name"`  // Display name (optional)
	Email string `json:"email"` // Email address (required)
}

// String returns the formatted email address.
// If Name is provided, returns "Name <email@domain.com>"
// Otherwise returns just "email@domain.com"
func (a Address) String() string {
	if a.Name != "" {
		return mime.QEncoding.Encode("UTF-8", a.Name) + " <" + a.Email + ">"
	}
	return a.Email
}

// Attachment represents a file attachment to be included with the email.
type Attachment struct {
	// Filename is the name of the file as it will appear in the email.
	Filename string

	// ContentType is the MIME content type of the file.
	// If empty, it will be detected from the filename extension.
	ContentType string

	// Data contains the raw file content.
	Data []byte
}

// DetectContentType attempts to detect the content type from the filename.
func (a *Attachment) DetectContentType() string {
	if a.ContentType != "" {
		return a.ContentType
	}

	ext := strings.ToLower(filepath.Ext(a.Filename))
	switch ext {
	case ".pdf":
		return "application/pdf"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".txt":
		return "text/plain"
	case ".html", ".htm":
		return "text/html"
	case ".csv":
		return "text/csv"
	case ".zip":
		return "application/zip"
	default:
		return "application/octet-stream"
	}
}

// Header is a single custom message header. A header carries either a plain
// string value or, for address-valued headers such as Reply-To, a structured
// address. When Addr is set it takes precedence over Value.
type Header struct {
	Name  string
	Value string
	Addr  *Address
}

// HeaderReplyTo is the canonical form of the Reply-To header name. Lookups
// are case-insensitive, so "reply-to" and "Reply-To" name the same header.
const HeaderReplyTo = "Reply-To"

// IsReplyTo reports whether the header names Reply-To, in any casing.
func (h Header) IsReplyTo() bool {
	return textproto.CanonicalMIMEHeaderKey(h.Name) == HeaderReplyTo
}

// Options holds SendGrid-specific delivery directives. Every field is
// optional; zero values mean the corresponding key is left out of the
// request entirely. Values are set through the Email helper methods.
type Options struct {
	// TemplateID selects a SendGrid stored template. When set, the request
	// carries no raw content even if bodies are present.
	TemplateID string

	// Substitutions are template substitution tags for personalization 0.
	Substitutions map[string]string

	// CustomArgs are opaque key/value pairs echoed back in event webhooks.
	CustomArgs map[string]string

	// ASMGroupID is the unsubscribe (ASM) group for this send.
	ASMGroupID *int

	// BypassListManagement skips suppression list checks when true.
	BypassListManagement *bool
}

// Email represents an email message. An Email is treated as immutable once
// handed to Deliver; the With*/Add* helpers return an updated copy and leave
// the receiver untouched.
type Email struct {
	From        Address      `json:"from"`        // Sender address
	To          []Address    `json:"to"`          // Primary recipients
	CC          []Address    `json:"cc"`          // Carbon copy recipients
	BCC         []Address    `json:"bcc"`         // Blind carbon copy recipients
	Subject     string       `json:"subject"`     // Email subject
	HTMLBody    string       `json:"html_body"`   // HTML body content
	TextBody    string       `json:"text_body"`   // Plain text body content
	Attachments []Attachment `json:"attachments"` // File attachments
	Headers     []Header     `json:"headers"`     // Custom headers, in definition order
	Options     Options      `json:"options"`     // SendGrid delivery directives
}

// HasAttachments returns true if the email has any attachments.
func (e *Email) HasAttachments() bool {
	return len(e.Attachments) > 0
}

// HasContent returns true if the email carries a text or HTML body.
func (e *Email) HasContent() bool {
	return e.TextBody != "" || e.HTMLBody != ""
}

// ReplyTo returns the effective Reply-To address, resolved from the custom
// headers. The match is case-insensitive and the last defined header wins
// when both casings are supplied. A bare string value yields an Address with
// only Email set. The second return value reports whether any form of the
// header was present.
func (e *Email) ReplyTo() (Address, bool) {
	var addr Address
	found := false
	for _, h := range e.Headers {
		if !h.IsReplyTo() {
			continue
		}
		if h.Addr != nil {
			addr = *h.Addr
		} else {
			addr = Address{Email: h.Value}
		}
		found = true
	}
	return addr, found
}

// PassthroughHeaders returns the custom headers that should be forwarded
// verbatim to the provider, that is, everything except Reply-To (which is
// promoted to a dedicated request field). Later definitions of the same
// header replace earlier ones.
func (e *Email) PassthroughHeaders() map[string]string {
	if len(e.Headers) == 0 {
		return nil
	}
	out := make(map[string]string)
	for _, h := range e.Headers {
		if h.IsReplyTo() {
			continue
		}
		if h.Addr != nil {
			out[h.Name] = h.Addr.String()
		} else {
			out[h.Name] = h.Value
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
