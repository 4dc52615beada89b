package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	toggleFlagTypeName      = "bool"
	toggleTrueLiteral       = "true"
	toggleAcceptedValues    = "true, false, yes, no, on, off, 1, 0"
	toggleInvalidValueLabel = "invalid boolean value"
	flagPrefix              = "--"
	flagTerminator          = "--"
)

var toggleLiterals = map[string]bool{
	"true":  true,
	"t":     true,
	"1":     true,
	"yes":   true,
	"y":     true,
	"on":    true,
	"false": false,
	"f":     false,
	"0":     false,
	"no":    false,
	"n":     false,
	"off":   false,
}

// separatedToggleLiterals are the spellings accepted as a separate argument after a toggle flag.
// Single-letter forms must be attached with "=" so that a path named "n" or "y" stays positional.
var separatedToggleLiterals = map[string]struct{}{
	"true":  {},
	"false": {},
	"yes":   {},
	"no":    {},
	"on":    {},
	"off":   {},
	"1":     {},
	"0":     {},
}

// toggleFlagValue is a boolean flag that also accepts yes/no and on/off spellings.
type toggleFlagValue struct {
	target  *bool
	flagKey string
}

func (value *toggleFlagValue) Set(input string) error {
	if value == nil || value.target == nil {
		return fmt.Errorf("%s %q", toggleInvalidValueLabel, input)
	}
	parsed, ok := parseToggleLiteral(input)
	if !ok {
		return fmt.Errorf("%s %q for --%s; accepted values: %s", toggleInvalidValueLabel, input, value.flagKey, toggleAcceptedValues)
	}
	*value.target = parsed
	return nil
}

func (value *toggleFlagValue) String() string {
	if value == nil || value.target == nil {
		return strconv.FormatBool(false)
	}
	return strconv.FormatBool(*value.target)
}

func (value *toggleFlagValue) Type() string {
	return toggleFlagTypeName
}

// parseToggleLiteral interprets input as a boolean; an empty input means true.
func parseToggleLiteral(input string) (bool, bool) {
	normalized := strings.ToLower(strings.TrimSpace(input))
	if normalized == "" {
		normalized = toggleTrueLiteral
	}
	parsed, ok := toggleLiterals[normalized]
	return parsed, ok
}

func registerToggleFlag(flagSet *pflag.FlagSet, target *bool, name string, defaultValue bool, usage string) {
	if flagSet == nil || target == nil {
		return
	}
	*target = defaultValue
	flagSet.Var(&toggleFlagValue{target: target, flagKey: name}, name, usage)
	if lookup := flagSet.Lookup(name); lookup != nil {
		lookup.DefValue = strconv.FormatBool(defaultValue)
		lookup.NoOptDefVal = toggleTrueLiteral
	}
}

// normalizeToggleArguments rewrites "--flag value" into "--flag=value" for toggle flags
// followed by a boolean literal, so the literal is not taken for a positional path.
func normalizeToggleArguments(command *cobra.Command, arguments []string) []string {
	if command == nil || len(arguments) == 0 {
		return arguments
	}
	toggleFlags := map[string]struct{}{}
	collectToggleFlagNames(command, toggleFlags)
	if len(toggleFlags) == 0 {
		return arguments
	}
	normalized := make([]string, 0, len(arguments))
	for index := 0; index < len(arguments); index++ {
		currentArgument := arguments[index]
		if currentArgument == flagTerminator {
			normalized = append(normalized, arguments[index:]...)
			break
		}
		if strings.HasPrefix(currentArgument, flagPrefix) && !strings.Contains(currentArgument, "=") && index+1 < len(arguments) {
			flagName := strings.TrimPrefix(currentArgument, flagPrefix)
			nextArgument := arguments[index+1]
			if _, isToggle := toggleFlags[flagName]; isToggle && !strings.HasPrefix(nextArgument, "-") && strings.TrimSpace(nextArgument) != "" {
				if _, valid := parseToggleLiteral(nextArgument); valid {
					normalized = append(normalized, fmt.Sprintf("%s%s=%s", flagPrefix, flagName, nextArgument))
					index++
					continue
				}
			}
		}
		normalized = append(normalized, currentArgument)
	}
	return normalized
}

func collectToggleFlagNames(command *cobra.Command, target map[string]struct{}) {
	if command == nil || target == nil {
		return
	}
	visit := func(flagSet *pflag.FlagSet) {
		if flagSet == nil {
			return
		}
		flagSet.VisitAll(func(flag *pflag.Flag) {
			if flag == nil || flag.Value == nil {
				return
			}
			if _, isToggle := flag.Value.(*toggleFlagValue); isToggle {
				target[flag.Name] = struct{}{}
			}
		})
	}
	visit(command.PersistentFlags())
	visit(command.Flags())
	for _, child := range command.Commands() {
		collectToggleFlagNames(child, target)
	}
}
