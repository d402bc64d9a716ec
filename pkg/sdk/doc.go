// Package recipedex embeds the recipedex catalog in a Go program: recipe
// storage on Valkey, Redis or BadgerDB, the in-memory search index, and
// health-aware recommendations, without running the HTTP server.
//
//	client, _ := recipedex.New(ctx, recipedex.WithBadger("./data"))
//	defer client.Close()
//
//	_, _ = client.Catalog().Import(ctx, drafts)
//	hits, _ := client.Search().Text(ctx, "tacos", 10)
//	recs, _ := client.Personalize().Recommend(ctx, recipedex.User{
//	    Goal:      "lose",
//	    Allergies: []string{"dairy"},
//	}, 10)
//
// The search index is built on the first query and refreshed only by
// Search().Rebuild; catalog writes do not update it.
package recipedex
