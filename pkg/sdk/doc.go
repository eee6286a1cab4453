// Package feedsearch provides an in-process Go client for the feedsearch
// semantic search service. It embeds queries through an OpenAI-compatible
// provider and runs nearest-neighbor queries against precomputed pgvector
// embeddings in Postgres, without going through the HTTP API.
//
//	client, _ := feedsearch.New(ctx,
//	    feedsearch.WithDatabase("postgres://localhost:5432/feeds"),
//	    feedsearch.WithOpenAI(os.Getenv("OPENAI_API_KEY")),
//	)
//	defer client.Close()
//
//	posts, _ := client.SearchPosts(ctx, "AI alignment research",
//	    feedsearch.Limit(5), feedsearch.Threshold(0.8),
//	)
package feedsearch
