package gservice

import (
	"encoding/base64"

	"google.golang.org/api/gmail/v1"
)

// extractBodies walks the MIME tree and returns the first text/plain and
// text/html bodies it finds, decoded.
func extractBodies(payload *gmail.MessagePart) (textBody, htmlBody string) {
	textBody, htmlBody = bodyFromPart(payload)

	for _, part := range payload.Parts {
		partText, partHTML := bodyFromPart(part)

		if textBody == "" {
			textBody = partText
		}
		if htmlBody == "" {
			htmlBody = partHTML
		}

		if len(part.Parts) > 0 {
			nestedText, nestedHTML := extractBodies(part)
			if textBody == "" {
				textBody = nestedText
			}
			if htmlBody == "" {
				htmlBody = nestedHTML
			}
		}
	}

	return textBody, htmlBody
}

func bodyFromPart(part *gmail.MessagePart) (textBody, htmlBody string) {
	if part.Body == nil || part.Body.Data == "" {
		return "", ""
	}

	switch part.MimeType {
	case "text/plain":
		return decodeBase64URL(part.Body.Data), ""
	case "text/html":
		return "", decodeBase64URL(part.Body.Data)
	default:
		return "", ""
	}
}

func decodeBase64URL(data string) string {
	decoded, err := base64.URLEncoding.DecodeString(data)
	if err != nil {
		decoded, err = base64.RawURLEncoding.DecodeString(data)
		if err != nil {
			return data
		}
	}

	return string(decoded)
}
