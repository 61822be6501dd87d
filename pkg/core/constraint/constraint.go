// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package constraint translates the raw integrity violation messages of
// the database into human-readable messages. The translation relies on
// the naming convention of constraints:
//
//	fk_<source_table>__<destination_table>
//	uc_<source_table>__<field1>[__<field2>...]___
//
// The trailing triple underscore of unique constraint names separates
// the logical name from any suffix which may be appended by the DBMS.
// Names are matched case-insensitively and may appear anywhere in the
// raw message. Unparseable messages are not an error; the translation
// just reports that no message could be produced.
package constraint

import (
	"fmt"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Fallback is the message which should be reported when Translate
// could not recognize any constraint name.
const Fallback = "Error executing operation"

var (
	fkPattern = regexp.MustCompile(`fk_(\w+)__(\w+)`)
	ucPattern = regexp.MustCompile(`uc_(\w+?)((?:__\w+?)+)___`)
)

// Translate tries the foreign key grammar first and then the unique
// constraint grammar on msg. The ok flag is false if none matched.
func Translate(msg string) (translated string, ok bool) {
	if translated, ok = ParseForeignKey(msg); ok {
		return translated, true
	}
	return ParseUniqueConstraint(msg)
}

// TranslateOrFallback is like Translate, but returns Fallback when msg
// contains no known constraint name.
func TranslateOrFallback(msg string) string {
	if translated, ok := Translate(msg); ok {
		return translated
	}
	return Fallback
}

// ParseForeignKey looks for a fk_<source>__<destination> constraint
// name in msg and describes why a destination row could not be
// deleted while source rows refer to it.
func ParseForeignKey(msg string) (string, bool) {
	m := fkPattern.FindStringSubmatch(strings.ToLower(msg))
	if m == nil {
		return "", false
	}
	src, dst := ReadableText(m[1]), ReadableText(m[2])
	return fmt.Sprintf(
		"It was not possible to delete %s because there is a %s associated with it",
		dst, src,
	), true
}

// ParseUniqueConstraint looks for a uc_<source>__<field>...___
// constraint name in msg and describes which fields of the source
// table have a duplicate value.
func ParseUniqueConstraint(msg string) (string, bool) {
	m := ucPattern.FindStringSubmatch(strings.ToLower(msg))
	if m == nil {
		return "", false
	}
	src := ReadableText(m[1])
	fields := strings.Split(strings.TrimPrefix(m[2], "__"), "__")
	for i, f := range fields {
		fields[i] = ReadableText(f)
	}
	noun := "value"
	if len(fields) > 1 {
		noun = "values"
	}
	return fmt.Sprintf(
		"There is already a %s with the same %s of %s",
		src, noun, strings.Join(fields, ", "),
	), true
}

// ReadableText replaces underscores of a database identifier with
// spaces and capitalizes every word, e.g., purchase_item becomes
// Purchase Item.
func ReadableText(identifier string) string {
	s := strings.TrimSpace(strings.ReplaceAll(identifier, "_", " "))
	// a Caser keeps state, so it may not be shared between goroutines
	return cases.Title(language.English).String(s)
}
