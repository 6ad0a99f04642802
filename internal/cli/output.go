package cli

import (
	"fmt"
	"io"

	"github.com/bizzai/go-session/identityapi"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// Exit codes.
const (
	exitOK       = 0
	exitFailure  = 1
	exitRemote   = 2
	exitUsage    = 3
	loginCommand = "bizzctl login"
)

type errorView struct {
	Error    string `json:"error"`
	Code     string `json:"code,omitempty"`
	Status   int    `json:"status,omitempty"`
	Category string `json:"category,omitempty"`
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) {
	fmt.Fprintln(w, print.MaybePrettyJSON(v))
}

// reportError prints err and returns the exit code for it. Remote
// rejections exit 2, everything else exits 1.
func reportError(w io.Writer, err error) int {
	view := errorView{Error: err.Error()}
	code := exitFailure

	if apiErr, ok := identityapi.AsAPIError(err); ok {
		rich := apiErr.Rich()
		view.Code = rich.TextCode
		view.Category = fmt.Sprint(rich.Category)
		view.Status = apiErr.StatusCode
		code = exitRemote
	} else {
		var rich *goerrors.Error
		if goerrors.As(err, &rich) {
			view.Code = rich.TextCode
			view.Category = fmt.Sprint(rich.Category)
		}
	}

	if IsJSONOutput() {
		writeJSON(w, view)
		return code
	}

	fmt.Fprintln(w, errorStyle.Render("Error: ")+view.Error)
	return code
}

// reportLoginRequired is the denial shown by protected commands.
func reportLoginRequired(w io.Writer) int {
	if IsJSONOutput() {
		writeJSON(w, errorView{Error: "not signed in", Code: "SESSION_NOT_AUTHENTICATED"})
		return exitFailure
	}
	fmt.Fprintln(w, warnStyle.Render("Not signed in."))
	fmt.Fprintln(w, hintStyle.Render(fmt.Sprintf("Run %q first.", loginCommand)))
	return exitFailure
}
