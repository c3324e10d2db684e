package keymap

import "strings"

// Binding maps keys to an action. The first key is the one shown in help.
type Binding struct {
	Keys        []string
	Action      Action
	Description string
}

// All contains all key bindings, in help order.
var All = []Binding{
	{[]string{"space", " "}, ActionPlayPause, "play/pause"},
	{[]string{"n", "pgdown"}, ActionNextTrack, "next"},
	{[]string{"p", "pgup"}, ActionPrevTrack, "previous"},
	{[]string{"left", "h"}, ActionSeekBack, "-10s"},
	{[]string{"right", "l"}, ActionSeekForward, "+10s"},
	{[]string{"g"}, ActionSeekTo, "go to position"},
	{[]string{"d"}, ActionDownload, "download"},
	{[]string{"c"}, ActionClearHistory, "clear finished"},
	{[]string{"q", "ctrl+c"}, ActionQuit, "quit"},
}

var defaultResolver = NewResolver(All)

// Resolve looks key up in the default bindings.
func Resolve(key string) Action {
	return defaultResolver.Resolve(key)
}

// Help renders bindings as a single line.
func Help(bindings []Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		if len(b.Keys) == 0 {
			continue
		}
		parts = append(parts, b.Keys[0]+" "+b.Description)
	}
	return strings.Join(parts, " • ")
}
