/*
Package config reads the projsync section of a project document.

	            +-------------+
	            |  document   |
	            |   (Tree)    |
	            +------+------+
	                   |
	            +------+------+
	            |   Config    |
	            | (typed view)|
	            +------+------+
	                   |
	  +--------+-------+-------+--------+
	  |        |               |        |
	options  targets        sources   trash

🎯 Purpose:
- Finds the project document (Discover) and parses it through pkg/document
- Reads [tool.projsync] from pyproject.toml, or the document root of a
  dedicated .projsync.{toml,yaml,json,hcl} file
- Merges declared source bindings over the built-in defaults
- Turns [tool.projsync.files.<name>] tables into target descriptors
- Adds [[tool.projsync.trash.rules]] to the default trash rules

🔍 Example (pyproject.toml):

	[project]
	name = "demo"
	version = "0.1.0"

	[tool.projsync.targets]
	header = true
	citation = true

	[tool.projsync.sources]
	copyright = "'Copyright ${~ time::year(time::now_utc()) ~} Demo Authors'"

	[tool.projsync.files.readme]
	path = "README.md"
	rules = [{ prefix = "Version: ", render = "Version: ${version}" }]

	[[tool.projsync.trash.rules]]
	kind = "exact"
	value = "node_modules"
	tier = "aggressive"
*/
package config
