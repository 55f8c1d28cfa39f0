package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/brizzai/auto-jira/internal/catalog"
	"github.com/brizzai/auto-jira/internal/requester"
	"github.com/itchyny/gojq"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newCallCmd() *cobra.Command {
	var (
		params   []string
		bodyFile string
		jqExpr   string
	)

	cmd := &cobra.Command{
		Use:   "call <operationId>",
		Short: "Call one operation and print the decoded response",
		Example: `  auto-jira call getBoard --param boardId=84
  auto-jira call getAllBoards --param 'type=["scrum"]' --jq '.values[].name'
  auto-jira call createBoard --body board.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, true)
			if err != nil {
				return err
			}
			if cfg.OpenAPIFile == "" {
				return errNoOpenAPIFile
			}

			var (
				cat        catalog.Catalog
				dispatcher *requester.Dispatcher
			)
			if err := populate(cfg, &cat, &dispatcher); err != nil {
				return err
			}

			route, ok := cat.Route(args[0])
			if !ok {
				return fmt.Errorf("unknown operation %q, see 'auto-jira routes'", args[0])
			}

			callArgs, err := parseParams(params)
			if err != nil {
				return err
			}
			if bodyFile != "" {
				body, err := readBody(bodyFile, cmd.InOrStdin())
				if err != nil {
					return err
				}
				callArgs[route.BodyArgName()] = body
			}

			desc, err := route.Descriptor(callArgs)
			if err != nil {
				return err
			}
			res, err := requester.Dispatch[any](cmd.Context(), dispatcher, desc)
			if err != nil {
				return err
			}
			value, err := res.Unwrap()
			if err != nil {
				return err
			}
			if value == nil {
				pterm.Success.Printfln("%s returned %d", route.OperationID, res.Status)
				return nil
			}
			return printValue(cmd.Context(), cmd.OutOrStdout(), value, jqExpr)
		},
	}

	cmd.Flags().StringArrayVarP(&params, "param", "p", nil, "Argument as name=value; JSON values are decoded (repeatable)")
	cmd.Flags().StringVar(&bodyFile, "body", "", "File holding the request body, or - for stdin")
	cmd.Flags().StringVar(&jqExpr, "jq", "", "jq expression applied to the response")
	return cmd
}

// parseParams turns name=value pairs into call arguments. Values that parse
// as JSON keep their JSON type so numbers, booleans and arrays pass through.
func parseParams(pairs []string) (map[string]any, error) {
	args := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q, expected name=value", pair)
		}
		var value any
		if err := json.Unmarshal([]byte(raw), &value); err != nil {
			value = raw
		}
		args[name] = value
	}
	return args, nil
}

// readBody loads a JSON body, or the raw text when the file is not JSON.
func readBody(path string, stdin io.Reader) (any, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	var body any
	if err := json.Unmarshal(data, &body); err != nil {
		return string(data), nil
	}
	return body, nil
}

// printValue writes value as indented JSON, or each result of the jq
// expression when one is given.
func printValue(ctx context.Context, w io.Writer, value any, expr string) error {
	if s, ok := value.(string); ok && expr == "" {
		_, err := fmt.Fprintln(w, s)
		return err
	}
	if expr == "" {
		return writeJSON(w, value)
	}

	query, err := gojq.Parse(expr)
	if err != nil {
		return fmt.Errorf("invalid jq expression: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	iter := query.RunWithContext(ctx, value)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := v.(error); isErr {
			return fmt.Errorf("jq: %w", err)
		}
		if s, isString := v.(string); isString {
			if _, err := fmt.Fprintln(w, s); err != nil {
				return err
			}
			continue
		}
		if err := writeJSON(w, v); err != nil {
			return err
		}
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
