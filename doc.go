// Package fuzzdex provides typo-tolerant text search over relational
// tables, built on the pg_trgm trigram primitives. On PostgreSQL the
// rendered queries run against the pg_trgm extension; on SQLite the same
// primitives are registered as scalar functions, so both backends score
// identically.
//
// # Low-level API: explicit control
//
//	client, _ := fuzzdex.New(
//	    fuzzdex.WithSQLite("app.db"),
//	    fuzzdex.WithTable("people", "id", "name", "city"),
//	)
//	hits, _ := client.Search("people").Term("joao silva").Fields("name").Do(ctx)
//
// A search can also be rendered without executing it:
//
//	desc, _ := client.Search("people").Term("joao").Describe()
//	// desc.SQL, desc.Args, desc.CountSQL; the term only ever binds as
//	// an argument, never as SQL text.
//
// # High-level API: schema-first with Go generics
//
//	type Person struct {
//	    ID   string `fuzzdex:"id,key"`
//	    Name string `fuzzdex:"name"`
//	    City string `fuzzdex:"city"`
//	}
//
//	client, _ := fuzzdex.New(
//	    fuzzdex.WithSQLite("app.db"),
//	    fuzzdex.WithTableFor[Person]("people"),
//	)
//	idx, _ := fuzzdex.NewIndex[Person](client, "people")
//	res, _ := idx.Search().Term("joao silva").Limit(5).Do(ctx)
package fuzzdex
