// Package script turns the scripts declared in toolbelt.yaml into CLI
// commands.
//
// A script is a shell command template plus the options it accepts:
//
//	scripts:
//	  test:
//	    about: Run the test suite
//	    success_exit_codes: [0, 5]
//	    options:
//	      - name: [-k, --keyword]
//	        about: Only run matching tests
//	    command: pytest {{ if .opts.keyword }}-k {{ .opts.keyword }}{{ end }}
//
// FromConfig parses a definition, Register attaches it to a cobra command
// tree and Runner renders and executes it when the command is invoked.
package script
