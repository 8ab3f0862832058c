package core

// Helper methods for attaching SendGrid delivery directives to an Email.
// Each helper returns a modified copy; the receiver is never mutated, so a
// base message can be decorated several ways and sent concurrently.

// WithTemplate returns a copy of the email that is sent through the SendGrid
// template with the given id. A template send carries no raw content; any
// text or HTML body on the message is ignored by the request builder.
func (e Email) WithTemplate(id string) Email {
	e.Options.TemplateID = id
	return e
}

// AddSubstitution returns a copy of the email with a template substitution
// added. Substitutions accumulate across calls; setting the same key twice
// keeps the last value.
func (e Email) AddSubstitution(key, value string) Email {
	e.Options.Substitutions = setKey(e.Options.Substitutions, key, value)
	return e
}

// AddCustomArg returns a copy of the email with a custom argument added.
// Custom args are echoed back by SendGrid event webhooks.
func (e Email) AddCustomArg(key, value string) Email {
	e.Options.CustomArgs = setKey(e.Options.CustomArgs, key, value)
	return e
}

// WithASMGroupID returns a copy of the email assigned to the given
// unsubscribe (ASM) group.
func (e Email) WithASMGroupID(id int) Email {
	e.Options.ASMGroupID = &id
	return e
}

// WithBypassListManagement returns a copy of the email with suppression
// list bypassing enabled or disabled.
func (e Email) WithBypassListManagement(enabled bool) Email {
	e.Options.BypassListManagement = &enabled
	return e
}

// setKey copies m before inserting so that emails sharing an options map
// never observe each other's writes.
func setKey(m map[string]string, key, value string) map[string]string {
	out := make(map[string]string, len(m)+1)
	for k, v := range m {
		out[k] = v
	}
	out[key] = value
	return out
}
