package enrich

import (
	"encoding/json"
	"fmt"
)

// genreSystemPrompt captures the instructions sent to the classification
// provider. Keep updates centralized here so it is easy to tweak without
// hunting through call sites.
const genreSystemPrompt = `You are an assistant that assigns one genre to each video game in a list.

Rules:

- You are given an "allowed_genres" list. Every answer MUST be copied verbatim from that list.

- Use the platform as disambiguating context when two games share a title.

- If you are not reasonably sure which allowed genre fits, answer "Unknown".

- Never invent labels, never combine labels, never explain.

You must respond ONLY with a JSON object like: {"genres": ["Platform", "RPG"]} containing exactly one entry per game, in the same order as the input list.`

type promptGame struct {
	Title    string `json:"title"`
	Platform string `json:"platform,omitempty"`
}

type promptRequest struct {
	AllowedGenres []string     `json:"allowed_genres"`
	Games         []promptGame `json:"games"`
}

type promptResponse struct {
	Genres []string `json:"genres"`
}

func buildGenreUserPrompt(allowed []string, games []promptGame) (string, error) {
	encoded, err := json.Marshal(promptRequest{AllowedGenres: allowed, Games: games})
	if err != nil {
		return "", fmt.Errorf("encode classification prompt: %w", err)
	}
	return string(encoded), nil
}
