/*
Package document holds the typed, read-only configuration tree that every
other projsync package resolves values from.

	  .toml  .yaml  .json  .hcl
	     \     |      |     /
	      +----+------+----+
	           |
	     +-----v-----+
	     |  Parser   |  (registry, picked by extension)
	     +-----+-----+
	           |
	     +-----v-----+        +-----------+
	     |   Tree    +------->+  Resolve  |  "tool.projsync.sources"
	     +-----------+        +-----------+

🎯 Purpose:
- A closed Value variant (null, boolean, integer, float, string, date,
  datetime, list, table)
- Dotted-path lookup with typed extraction
- Conversion to and from cty values for HCL filter expressions

📝 Keys never contain ".", so a dotted path is always unambiguous. This is
checked when a Table is built, not on lookup.
*/
package document
