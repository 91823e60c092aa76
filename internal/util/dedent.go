/**
 * Copyright (c) 2026, The Selene Authors.
 *
 * Permission to use, copy, modify, and/or distribute this software for any
 * purpose with or without fee is hereby granted, provided that the above
 * copyright notice and this permission notice appear in all copies.
 *
 * THE SOFTWARE IS PROVIDED "AS IS" AND THE AUTHOR DISCLAIMS ALL WARRANTIES
 * WITH REGARD TO THIS SOFTWARE INCLUDING ALL IMPLIED WARRANTIES OF
 * MERCHANTABILITY AND FITNESS. IN NO EVENT SHALL THE AUTHOR BE LIABLE FOR
 * ANY SPECIAL, DIRECT, INDIRECT, OR CONSEQUENTIAL DAMAGES OR ANY DAMAGES
 * WHATSOEVER RESULTING FROM LOSS OF USE, DATA OR PROFITS, WHETHER IN AN
 * ACTION OF CONTRACT, NEGLIGENCE OR OTHER TORTIOUS ACTION, ARISING OUT OF
 * OR IN CONNECTION WITH THE USE OR PERFORMANCE OF THIS SOFTWARE.
 */

package util

import (
	"strings"
)

// Dedent makes an indented raw string literal readable at its use site: it drops leading
// newlines, trailing spaces and tabs, and the widest whitespace margin shared by every
// non-blank line.
func Dedent(s string) string {
	s = strings.TrimLeft(s, "\n")
	s = strings.TrimRight(s, " \t")

	lines := strings.Split(s, "\n")

	// The margin is the indent of the least-indented non-blank line. Blank lines place no
	// bound on it.
	var (
		margin string
		found  bool
	)
	for _, line := range lines {
		content := strings.TrimLeft(line, " \t")
		if content == "" {
			continue
		}
		indent := line[:len(line)-len(content)]
		if !found || len(indent) < len(margin) {
			margin, found = indent, true
		}
		if margin == "" {
			break
		}
	}
	if margin == "" {
		return s
	}

	for i, line := range lines {
		if strings.HasPrefix(line, margin) {
			lines[i] = line[len(margin):]
		} else {
			// A blank line indented shallower than the margin.
			lines[i] = strings.TrimLeft(line, " \t")
		}
	}
	return strings.Join(lines, "\n")
}
