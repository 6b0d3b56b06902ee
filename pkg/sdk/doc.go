// Package tornamcp is a Go client for the torna-mcp HTTP API.
//
// It invokes the documentation tools served under /mcp and decodes their results:
//
//	client, _ := tornamcp.New("http://localhost:3000", tornamcp.WithAPIKey("secret"))
//	res, _ := client.SearchAPIs(ctx, "login", "")
//	if doc := res.Document; doc != nil {
//	    fmt.Println(doc.Method, doc.URL)
//	}
//	list, _ := client.ListAPIs(ctx, "", 20)
//	detail, _ := client.APIDetail(ctx, list[0].ID)
package tornamcp
