// Package render produces file content from templates.
//
// Build descriptor templates use {name} placeholders. A doubled brace
// ({{ or }}) stands for a literal brace. Every placeholder must have a
// value; rendering never leaves a placeholder token behind.
package render

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/colin4124/knitkit/pkg/errors"
	"github.com/colin4124/knitkit/pkg/logging"
	"github.com/colin4124/knitkit/pkg/types"
)

// Renderer renders templates resolved from a store
type Renderer struct {
	store types.TemplateStore
}

// New creates a renderer over store
func New(store types.TemplateStore) *Renderer {
	return &Renderer{store: store}
}

// Render loads the named template and produces its content for role.
// Opaque and entry point templates come back unchanged.
func (r *Renderer) Render(name string, role types.Role, substitutions map[string]string) ([]byte, error) {
	logger := logging.GetLogger("render")

	raw, err := r.store.Lookup(name)
	if err != nil {
		return nil, err
	}

	switch role {
	case types.RoleBuildDescriptor:
		if !utf8.Valid(raw) {
			return nil, errors.Newf(errors.ErrTemplateInvalid, "template %q is not valid UTF-8", name).
				WithDetail("template", name)
		}
		out, err := RenderString(string(raw), substitutions)
		if err != nil {
			return nil, errors.Annotatef(err, "cannot render %s", name).
				WithDetail("template", name)
		}
		logger.Debug().
			Str("template", name).
			Int("substitutions", len(substitutions)).
			Msg("rendered build descriptor")
		return []byte(out), nil
	case types.RoleEntrypoint, types.RoleOpaque:
		return raw, nil
	default:
		return nil, errors.Newf(errors.ErrInternal, "unknown template role %q", role)
	}
}

// token is one parsed piece of a template
type token struct {
	literal string
	key     string
}

// parse splits text into literal runs and placeholder keys
func parse(text string) ([]token, error) {
	var tokens []token
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, token{literal: lit.String()})
			lit.Reset()
		}
	}

	line := 1
	for i := 0; i < len(text); i++ {
		c := text[i]
		switch c {
		case '\n':
			line++
			lit.WriteByte(c)
		case '{':
			if i+1 < len(text) && text[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(text[i+1:], '}')
			if end < 0 {
				return nil, errors.Newf(errors.ErrTemplateInvalid, "unterminated placeholder on line %d", line).
					WithDetail("line", line)
			}
			key := text[i+1 : i+1+end]
			if !isIdentifier(key) {
				return nil, errors.Newf(errors.ErrTemplateInvalid, "invalid placeholder {%s} on line %d", key, line).
					WithDetail("line", line)
			}
			flush()
			tokens = append(tokens, token{key: key})
			i += end + 1
		case '}':
			if i+1 < len(text) && text[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return nil, errors.Newf(errors.ErrTemplateInvalid, "single '}' on line %d", line).
				WithDetail("line", line)
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return tokens, nil
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

// Placeholders returns the distinct placeholder keys used by text, sorted
func Placeholders(text string) ([]string, error) {
	tokens, err := parse(text)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var keys []string
	for _, tok := range tokens {
		if tok.key != "" && !seen[tok.key] {
			seen[tok.key] = true
			keys = append(keys, tok.key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// RenderString substitutes every placeholder in text.
// A placeholder without a value is a MISSING_SUBSTITUTION error listing
// all missing keys.
func RenderString(text string, substitutions map[string]string) (string, error) {
	tokens, err := parse(text)
	if err != nil {
		return "", err
	}

	var missing []string
	seen := make(map[string]bool)
	for _, tok := range tokens {
		if tok.key == "" {
			continue
		}
		if _, ok := substitutions[tok.key]; !ok && !seen[tok.key] {
			seen[tok.key] = true
			missing = append(missing, tok.key)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return "", errors.Newf(errors.ErrMissingSubstitution, "no value for placeholder(s) %s", strings.Join(missing, ", ")).
			WithDetail("missing", missing)
	}

	var out strings.Builder
	out.Grow(len(text))
	for _, tok := range tokens {
		if tok.key != "" {
			out.WriteString(substitutions[tok.key])
		} else {
			out.WriteString(tok.literal)
		}
	}
	return out.String(), nil
}
