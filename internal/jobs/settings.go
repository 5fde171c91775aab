// SPDX-License-Identifier: MIT

package jobs

import "github.com/gitpan/xmltv/internal/config"

// ConfigFromSettings maps the daemon configuration onto a run
// configuration. Trigger names what started the run (startup, api,
// watcher).
func ConfigFromSettings(s config.Settings, trigger string) Config {
	return Config{
		Inputs:    s.Inputs,
		Output:    s.Output,
		ByChannel: s.ByChannel,
		Location:  s.Location,
		Workers:   s.Workers,
		AliasFile: s.AliasFile,
		Trigger:   trigger,
	}
}
