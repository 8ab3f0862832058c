package mail

import (
	"encoding/base64"

	jsoniter "github.com/json-iterator/go"

	"github.com/lattiq/sendgrid/internal/core"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// BuildPayload translates an email into the serialized mail/send request
// body. sandbox enables SendGrid sandbox mode, merged alongside any other
// mail settings the message already requires.
func BuildPayload(email *core.Email, sandbox bool) ([]byte, error) {
	p := NewPayload(email, sandbox)
	return json.Marshal(p)
}

// NewPayload maps an email onto the wire structure without serializing it.
func NewPayload(email *core.Email, sandbox bool) *Payload {
	opts := email.Options

	p := &Payload{
		Personalizations: []Personalization{{
			To:            addressList(email.To),
			CC:            addressList(email.CC),
			BCC:           addressList(email.BCC),
			Substitutions: opts.Substitutions,
			CustomArgs:    opts.CustomArgs,
		}},
		From:       address(email.From),
		Subject:    email.Subject,
		TemplateID: opts.TemplateID,
		Headers:    email.PassthroughHeaders(),
	}

	// A template send carries no raw content even when bodies are set.
	if opts.TemplateID == "" && email.HasContent() {
		if email.TextBody != "" {
			p.Content = append(p.Content, Content{Type: "text/plain", Value: email.TextBody})
		}
		if email.HTMLBody != "" {
			p.Content = append(p.Content, Content{Type: "text/html", Value: email.HTMLBody})
		}
	}

	for i := range email.Attachments {
		att := &email.Attachments[i]
		p.Attachments = append(p.Attachments, UploadedFile{
			Type:     att.DetectContentType(),
			Filename: att.Filename,
			Content:  base64.StdEncoding.EncodeToString(att.Data),
		})
	}

	if replyTo, ok := email.ReplyTo(); ok {
		addr := address(replyTo)
		p.ReplyTo = &addr
	}

	if opts.ASMGroupID != nil {
		p.ASM = &ASM{GroupID: *opts.ASMGroupID}
	}

	if opts.BypassListManagement != nil {
		p.settings().BypassListManagement = &Setting{Enable: *opts.BypassListManagement}
	}
	if sandbox {
		p.settings().SandboxMode = &Setting{Enable: true}
	}

	return p
}

// settings lazily allocates MailSettings so the key stays absent when no
// switch is set.
func (p *Payload) settings() *MailSettings {
	if p.MailSettings == nil {
		p.MailSettings = &MailSettings{}
	}
	return p.MailSettings
}

func address(a core.Address) EmailAddress {
	return EmailAddress{Email: a.Email, Name: a.Name}
}

func addressList(addrs []core.Address) []EmailAddress {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]EmailAddress, len(addrs))
	for i, a := range addrs {
		out[i] = address(a)
	}
	return out
}
