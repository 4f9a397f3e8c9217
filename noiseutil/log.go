/*
Copyright © 2023 the EnvNoise authors.
This file is part of EnvNoise.

EnvNoise is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

EnvNoise is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with EnvNoise.  If not, see <http://www.gnu.org/licenses/>.
*/

package noiseutil

import (
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// logFile is the currently open log file, if any.
var logFile *os.File

// setLogger configures the logger using the LogLevel and LogFile settings.
// Messages are written to the standard error stream of cmd and are also
// copied to LogFile when it is set.
func setLogger(cmd *cobra.Command) error {
	level, err := logrus.ParseLevel(Cfg.GetString("LogLevel"))
	if err != nil {
		return fmt.Errorf("envnoise: invalid LogLevel: %v", err)
	}
	logrus.SetLevel(level)

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	path := os.ExpandEnv(Cfg.GetString("LogFile"))
	if path == "" {
		logrus.SetOutput(cmd.ErrOrStderr())
		return nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("envnoise: problem creating log file: %v", err)
	}
	logFile = f
	logrus.SetOutput(io.MultiWriter(cmd.ErrOrStderr(), f))
	return nil
}
