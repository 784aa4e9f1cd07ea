// Package pathpattern compiles and matches route path templates.
//
// A template is a slash-separated string whose segments are literals,
// named parameters, or a wildcard:
//
//	/users/:id                  // any non-empty segment
//	/users/:id{[0-9]+}          // anchored regular expression
//	/files/:path{.+\.png}       // expressions may span slashes
//	/users/:id?                 // optional trailing parameter
//	/static/*                   // wildcard
//
// Curly-brace groups are opaque to splitting, so an expression such as
// {[a-z]+/[0-9]+} stays inside one segment.
//
// # Pattern cache
//
// Parsing a parameter label compiles a regular expression, so results are
// memoized in a Cache. A Cache is owned by one router and shared by every
// request it serves; it is safe for concurrent use and never evicts, since
// the key space is the finite set of labels in the route table.
//
//	cache := pathpattern.NewCache()
//	route, err := pathpattern.Compile("/posts/:slug{[a-z-]+}/*", cache)
//	if err != nil {
//	    return err
//	}
//	params, ok := route.Match("/posts/hello-world/comments/2")
//	// params["slug"] == "hello-world", params["*"] == "comments/2"
//
// # URL helpers
//
// Path, PathNoStrict and QueryString work on absolute URL strings without a
// full URL parse. MergePath joins route prefixes with slash normalization.
package pathpattern
