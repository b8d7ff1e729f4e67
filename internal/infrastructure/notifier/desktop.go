package notifier

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"offerwatch/internal/domain"
	"offerwatch/internal/domain/entity"
	"offerwatch/pkg/errcodes"
)

// Desktop pops a native notification on the machine running the scanner.
// macOS goes through osascript, Linux through notify-send.
type Desktop struct{}

func NewDesktop() *Desktop {
	return &Desktop{}
}

func (n *Desktop) Send(ctx context.Context, notification entity.Notification) error {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf("display notification %q with title %q",
			notification.Body, notification.Title)
		cmd = exec.CommandContext(ctx, "osascript", "-e", script)
	case "linux":
		cmd = exec.CommandContext(ctx, "notify-send", notification.Title, notification.Body)
	default:
		return domain.NewError(errcodes.NotificationFailed,
			fmt.Sprintf("no desktop notifications on %s", runtime.GOOS))
	}

	if out, err := cmd.CombinedOutput(); err != nil {
		return domain.WrapError(err, errcodes.NotificationFailed,
			fmt.Sprintf("desktop notification: %s", out))
	}

	return nil
}
