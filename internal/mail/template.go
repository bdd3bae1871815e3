package mail

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"
)

//go:embed templates/*
var templateFS embed.FS

var (
	verifyText = texttemplate.Must(texttemplate.ParseFS(templateFS, "templates/verify_email.txt"))
	verifyHTML = htmltemplate.Must(htmltemplate.ParseFS(templateFS, "templates/verify_email.html"))
)

type verifyData struct {
	Project  string
	Name     string
	URL      string
	ValidFor string
}

// RenderVerifyEmail builds the verification mail addressed to name at to.
func RenderVerifyEmail(project, to, name, verificationURL string) (*Message, error) {
	data := verifyData{
		Project:  project,
		Name:     name,
		URL:      verificationURL,
		ValidFor: "1 hour",
	}
	var text bytes.Buffer
	if err := verifyText.Execute(&text, data); err != nil {
		return nil, fmt.Errorf("render text part: %w", err)
	}
	var html bytes.Buffer
	if err := verifyHTML.Execute(&html, data); err != nil {
		return nil, fmt.Errorf("render html part: %w", err)
	}
	return &Message{
		To:      to,
		ToName:  name,
		Subject: fmt.Sprintf("Verify your email address - %s", project),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}
