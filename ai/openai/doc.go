// Package openai provides AI service implementations using OpenAI-compatible APIs.
//
// This package implements the ai.AIProvider interface using the langchaingo
// library. The default configuration talks to Google's OpenAI-compatible
// embedding endpoint and to Groq for chat completion, but any compatible
// server (Ollama, LocalAI, vLLM) works.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithEmbeddingAPIKey(os.Getenv("GOOGLE_GENAI_API_KEY")),
//	    ai.WithCompletionAPIKey(os.Getenv("GROQ_API_KEY")),
//	)
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedText(ctx, "sample text")
//	reply, err := provider.Completer().Complete(ctx, []ai.Message{ai.UserMessage("hi")})
//
// Every call is bounded by Config.Timeout and, when Config.RequestsPerSecond
// is set, throttled by a token-bucket limiter per host.
package openai
