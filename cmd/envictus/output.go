// SPDX-FileCopyrightText: Copyright 2026 Stacklok, Inc.
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/stacklok/envictus/schema"
)

// printer writes styled status lines. Colors are only emitted when w is a
// terminal.
type printer struct {
	w          io.Writer
	okStyle    lipgloss.Style
	errorStyle lipgloss.Style
	dimStyle   lipgloss.Style
}

func newPrinter(w io.Writer) *printer {
	r := lipgloss.NewRenderer(w)
	return &printer{
		w:          w,
		okStyle:    r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		errorStyle: r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		dimStyle:   r.NewStyle().Faint(true),
	}
}

func (p *printer) line(s string) {
	_, _ = fmt.Fprintln(p.w, s)
}

func (p *printer) ok(msg string) {
	p.line(p.okStyle.Render("✓") + " " + msg)
}

func (p *printer) failure(msg string) {
	p.line(p.errorStyle.Render("✗") + " " + msg)
}

func (p *printer) note(msg string) {
	p.line(p.dimStyle.Render(msg))
}

// issues prints one issue per line as "  ✗ path: message".
func (p *printer) issues(issues schema.Issues) {
	p.failure("Environment validation failed:")
	for _, is := range issues {
		p.line("  " + p.errorStyle.Render("✗") + " " + is.String())
	}
}

// formatDotenv renders env as sorted KEY=VALUE lines. Values are quoted and
// escaped so that godotenv, and therefore --env, reads them back unchanged.
func formatDotenv(env map[string]string) (string, error) {
	keys := slices.Sorted(maps.Keys(env))

	var b strings.Builder
	for _, k := range keys {
		v := env[k]
		// godotenv.Marshal reformats integers, turning "007" into 7.
		if n, err := strconv.Atoi(v); err == nil && strconv.Itoa(n) != v {
			fmt.Fprintf(&b, "%s=\"%s\"\n", k, v)
			continue
		}
		line, err := godotenv.Marshal(map[string]string{k: v})
		if err != nil {
			return "", err
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func formatJSON(env map[string]string) (string, error) {
	var b strings.Builder
	enc := json.NewEncoder(&b)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(env); err != nil {
		return "", err
	}
	return b.String(), nil
}
