/*
Package template implements placeholder substitution.

	"v${project.version ~ semver::major(value) ~}.x"
	  |        |                  |
	  |     lookup           HCL filter over `value`
	  |        |                  |
	  +--------+------> "v1.x" <--+

🎯 Syntax:
- ${dotted.path} looks a value up
- ${'literal text'} uses the text as is (it is still rescanned)
- ${path ~ expr ~} evaluates expr with `value` bound to the lookup result
- ${~ expr ~} evaluates expr with `value` bound to null

🔄 After a pass, the output is scanned again because values may carry
placeholders of their own. A pass with nothing to replace ends the loop;
running past the depth bound is a SubstitutionCycleError.
*/
package template
