package core

// Sample returns a representative session used by `statusline preview` when no
// input file is given.
func Sample(dir string) *Session {
	return &Session{
		SessionID: "preview",
		CWD:       dir,
		Version:   "2.0.0",
		Model: Model{
			ID:          "claude-opus-4-5-20251101",
			DisplayName: "Opus 4.5",
		},
		ContextWindow: ContextWindow{
			TotalInputTokens:  45000,
			TotalOutputTokens: 8000,
			ContextWindowSize: DefaultContextWindow,
			CachedTokens:      12000,
		},
		Cost: Cost{
			TotalCostUSD:       2.34,
			TotalDurationMS:    3_600_000,
			TotalAPIDurationMS: 1_250,
			TotalLinesAdded:    120,
			TotalLinesRemoved:  14,
		},
		Workspace: Workspace{
			CurrentDir: dir,
			ProjectDir: dir,
		},
		MCPServers: []MCPServer{
			{Name: "github", Status: "connected"},
			{Name: "filesystem", Status: "connected"},
		},
		OutputStyle:  []byte(`{"name":"default"}`),
		MessageCount: []byte(`12`),
	}
}
