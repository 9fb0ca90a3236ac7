// Package fuzzdex provides an HTTP client for a remote fuzzdex search
// service. It talks to the REST API exposed by `fuzzdex serve` and maps
// API errors back to the same sentinels the embedded engine returns, so
// errors.Is checks work identically in both deployment modes.
//
// For running the engine in-process against your own database, use the
// root package github.com/kailas-cloud/fuzzdex instead; this package is
// for callers that reach an already running service over the network.
//
//	client, _ := fuzzdex.NewClient("http://localhost:8080",
//	    fuzzdex.WithAPIKey(os.Getenv("FUZZDEX_API_KEY")),
//	)
//	res, _ := client.Search(ctx, "people", "joao silva",
//	    fuzzdex.Fields("name"),
//	    fuzzdex.Limit(10),
//	)
//	for _, hit := range res.Items {
//	    fmt.Println(hit.Key, hit.Relevance)
//	}
package fuzzdex
