package service

import "context"

// AutoDetect asks the translator to detect the source language
const AutoDetect = "auto"

// Translator translates text between languages
type Translator interface {
	// Translate returns text rendered in target. source may be AutoDetect.
	Translate(ctx context.Context, text, source, target string) (string, error)
}
