package tray

// Options controls the tray menu.
type Options struct {
	Tooltip string
	// IconPath is tried before sentlog.ico next to the executable.
	IconPath string
	// OnOpen is bound to "Open status page"; the item is hidden when nil.
	OnOpen func()
	// OnQuit is bound to "Export and quit".
	OnQuit func()
}

// Controller removes the tray icon.
type Controller interface {
	Stop()
}

const (
	defaultTooltip = "sentlog"
	iconName       = "sentlog.ico"
)

func (o Options) tooltip() string {
	if o.Tooltip == "" {
		return defaultTooltip
	}
	return o.Tooltip
}
