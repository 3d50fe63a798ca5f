package process

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/viant/afs"
	"github.com/viant/multiproc/errors"
	"github.com/viant/parsly"
	"github.com/viant/toolbox"
)

// ParseScript parses statements separated by ';' or newlines:
//
//	inc [n]; dec [n]; reset; report; wait <duration>; quit
//
// '#' starts a comment running to the end of the line.
func ParseScript(script string) ([]Action, error) {
	cursor := parsly.NewCursor("", []byte(script), 0)
	var actions []Action
	for {
		matched := cursor.MatchAfterOptional(blankToken, separatorToken, commentToken, keywordToken)
		switch matched.Code {
		case parsly.EOF:
			return actions, nil
		case separatorCode, commentCode:
			continue
		case keywordCode:
			action, err := parseStatement(cursor, matched.Text(cursor))
			if err != nil {
				return nil, err
			}
			actions = append(actions, action)
		default:
			return nil, errors.WrapCode(cursor.NewError(keywordToken), errors.ErrInvalidScript, "invalid script")
		}
	}
}

func parseStatement(cursor *parsly.Cursor, keyword string) (Action, error) {
	kind, ok := kinds[strings.ToLower(keyword)]
	if !ok {
		return Action{}, errors.Newf(errors.ErrInvalidScript, "unknown action %q at %d", keyword, cursor.Pos-len(keyword))
	}
	var args []string
	for {
		matched := cursor.MatchAfterOptional(blankToken, argumentToken)
		if matched.Code != argumentCode {
			break
		}
		args = append(args, matched.Text(cursor))
	}
	action := Action{Kind: kind}
	switch kind {
	case Inc, Dec:
		if len(args) > 1 {
			return action, errors.Newf(errors.ErrInvalidScript, "%v: expected at most one argument, got %v", kind, len(args))
		}
		action.N = 1
		if len(args) == 1 {
			n, err := toolbox.ToInt(args[0])
			if err != nil || n < 0 || n > math.MaxInt32 {
				return action, errors.Newf(errors.ErrInvalidScript, "%v: invalid amount %q", kind, args[0])
			}
			action.N = int32(n)
		}
	case Wait:
		if len(args) != 1 {
			return action, errors.Newf(errors.ErrInvalidScript, "wait: expected a duration")
		}
		delay, err := time.ParseDuration(args[0])
		if err != nil || delay < 0 {
			return action, errors.Newf(errors.ErrInvalidScript, "wait: invalid duration %q", args[0])
		}
		action.Delay = delay
	default:
		if len(args) > 0 {
			return action, errors.Newf(errors.ErrInvalidScript, "%v: unexpected argument %q", kind, args[0])
		}
	}
	return action, nil
}

// LoadScripts parses every entry and concatenates the actions. An entry
// starting with '@' names a file or URL whose content is the script.
func LoadScripts(ctx context.Context, fs afs.Service, entries []string) ([]Action, error) {
	var actions []Action
	for _, entry := range entries {
		script := entry
		if strings.HasPrefix(entry, "@") {
			if fs == nil {
				fs = afs.New()
			}
			data, err := fs.DownloadWithURL(ctx, entry[1:])
			if err != nil {
				return nil, errors.Wrapf(err, "load script %v", entry[1:])
			}
			script = string(data)
		}
		parsed, err := ParseScript(script)
		if err != nil {
			return nil, err
		}
		actions = append(actions, parsed...)
	}
	return actions, nil
}
