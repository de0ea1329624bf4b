// SPDX-License-Identifier: MIT

// Package license provides standardized license information display for the
// open source licenses used across Workhelix tools. Output is written as
// markdown and rendered with glamour when stdout is a terminal.
package license

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/workhelix/cli-common/output"
)

// Type identifies a supported license.
type Type int

const (
	// MIT is the MIT License.
	MIT Type = iota
	// Apache2 is the Apache License 2.0.
	Apache2
	// CC0 is the Creative Commons CC0 1.0 Universal public domain dedication.
	CC0
)

// Parse recognizes a license identifier, accepting common aliases such as
// "apache" or "cc0" case-insensitively. The second return value reports
// whether the identifier was recognized.
func Parse(s string) (Type, bool) {
	switch strings.ToUpper(s) {
	case "MIT":
		return MIT, true
	case "APACHE-2.0", "APACHE2", "APACHE":
		return Apache2, true
	case "CC0-1.0", "CC0":
		return CC0, true
	default:
		return 0, false
	}
}

// Name returns the SPDX identifier of the license.
func (t Type) Name() string {
	switch t {
	case MIT:
		return "MIT"
	case Apache2:
		return "Apache-2.0"
	case CC0:
		return "CC0-1.0"
	}
	return "unknown"
}

// Render writes license information for toolName to w. On a TTY the
// markdown is rendered with glamour; otherwise the raw markdown is written,
// which reads fine as plain text.
func Render(w io.Writer, toolName string, t Type) error {
	md := markdown(toolName, t)

	if output.IsTTY() {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(100))
		if err == nil {
			if rendered, rerr := r.Render(md); rerr == nil {
				_, werr := io.WriteString(w, rendered)
				return werr
			}
		}
		// Renderer failures fall through to plain markdown.
	}

	_, err := io.WriteString(w, md)
	return err
}

// markdown builds the license summary document.
func markdown(toolName string, t Type) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s is licensed under %s\n\n", toolName, t.Name())

	switch t {
	case MIT:
		b.WriteString("**MIT License** - A permissive license that allows:\n\n")
		b.WriteString("- Commercial use\n- Modification\n- Distribution\n- Private use\n\n")
		b.WriteString("Requires:\n\n- License and copyright notice\n\n")
		b.WriteString(mitText)
	case Apache2:
		b.WriteString("**Apache License 2.0** - A permissive license that allows:\n\n")
		b.WriteString("- Commercial use\n- Modification\n- Distribution\n- Patent use\n- Private use\n\n")
		b.WriteString("Requires:\n\n- License and copyright notice\n- State changes\n")
	case CC0:
		b.WriteString("**Creative Commons CC0 1.0 Universal** - Public domain dedication:\n\n")
		b.WriteString("- No rights reserved\n- Can be used for any purpose\n- No attribution required\n")
	}

	b.WriteString("\nFor full license text, see: LICENSE file in project root\n")

	return b.String()
}

const mitText = `MIT License

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
`
