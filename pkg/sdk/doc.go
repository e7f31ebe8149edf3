// Package scriptsearch embeds the script-agnostic view search in a Go
// program without running the HTTP server.
//
// Views are declared up front and searched by name. Every search term is
// matched in both its Latin and its Cyrillic spelling, so "Moskva" finds
// records stored as "Москва" and the other way round.
//
//	client, _ := scriptsearch.New(ctx,
//	    scriptsearch.WithFixtures("fixtures.yaml"),
//	    scriptsearch.WithView(scriptsearch.View{
//	        Name:         "places",
//	        Table:        "places",
//	        Columns:      []string{"name"},
//	        SearchFields: []string{"name", "city.name"},
//	        Relations: []scriptsearch.Relation{
//	            {Name: "city", Table: "cities", LocalColumn: "city_id", RemoteColumn: "id"},
//	        },
//	    }),
//	)
//	defer client.Close()
//	page, _ := client.Search(ctx, "places", "moskva", 1, 20)
package scriptsearch
