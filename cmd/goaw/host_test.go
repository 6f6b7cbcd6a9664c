// Copyright (C) 2021  Antonio Lassandro

// This program is free software: you can redistribute it and/or modify it
// under the terms of the GNU General Public License as published by the Free
// Software Foundation, either version 3 of the License, or (at your option)
// any later version.

// This program is distributed in the hope that it will be useful, but WITHOUT
// ANY WARRANTY; without even the implied warranty of MERCHANTABILITY or
// FITNESS FOR A PARTICULAR PURPOSE.  See the GNU General Public License for
// more details.

// You should have received a copy of the GNU General Public License along
// with this program.  If not, see <http://www.gnu.org/licenses/>.

package main

import (
	"testing"

	"github.com/tliron/commonlog"

	"github.com/lassandro/goaw/pkg/resource"
)

func TestSeverity(t *testing.T) {
	testCases := []struct {
		Message string
		Level   commonlog.Level
		Text    string
	}{
		{resource.LOG_WARNING + "Invalid palette 40", commonlog.Warning, "Invalid palette 40"},
		{resource.LOG_ERROR + "- Unpacking failed", commonlog.Error, "- Unpacking failed"},
		{"Invalid text without a tag", commonlog.Debug, "Invalid text without a tag"},
		{"Switch to chapter 16001", commonlog.Debug, "Switch to chapter 16001"},
	}

	for _, test := range testCases {
		level, text := severity(test.Message)

		if level != test.Level || text != test.Text {
			t.Errorf(
				"Severity mismatch\nwant:%v %q\nhave:%v %q",
				test.Level,
				test.Text,
				level,
				text,
			)
		}
	}
}
