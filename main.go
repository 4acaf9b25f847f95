package main

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/rjtobin/yask/internal/cliconfig"
	"github.com/rjtobin/yask/internal/driver"
)

const (
	newline = "\n"
	space   = " "
	indent  = space + space + space + space
	usage   = newline + "Usage:" + newline + newline + indent + "yask" + space
)

// version is bumped by hand; there is no build-time stamping here.
const version = 1

func cmdGenerate() error {
	opt, err := cliconfig.Parse(os.Args[2:])
	if err != nil {
		return errors.New(usage +
			os.Args[1] + space + "[FLAGS]" + newline +
			newline +
			err.Error() + newline +
			newline +
			"Required:" + newline +
			newline +
			indent + "-st NAME       select a registered stencil" + newline +
			newline +
			"At least one print-mode flag is required:" + newline +
			newline +
			indent + "-ph            print an optimization-summary header" + newline +
			indent + "-pp            print pseudo-code" + newline +
			indent + "-pm            print a POV-Ray scene (not implemented)" + newline +
			indent + "-pcpp          print portable C++ (not implemented)" + newline +
			indent + "-pknc          print KNC intrinsics (not implemented)" + newline +
			indent + "-p512          print AVX-512 intrinsics (not implemented)" + newline +
			indent + "-p256          print AVX-256 intrinsics (not implemented)" + newline +
			newline +
			"Optional:" + newline +
			newline +
			indent + "-fold SHAPE    vector-fold shape, e.g. x=4,y=2; defaults to no folding" + newline +
			indent + "-cluster SHAPE cluster shape, defaults to one point per fold dim" + newline +
			indent + "-eq SPEC       equation-group target spec" + newline +
			indent + "-or N          stencil order, if the stencil honors one" + newline +
			indent + "-lus           last-unit-stride traversal (default first-unit-stride)" + newline +
			indent + "-aul           allow a single unaligned load per vector" + newline +
			indent + "-es N          expression-size hint" + newline +
			indent + "-nocomb        skip the combine pass" + newline +
			indent + "-nocse         skip common-subexpression elimination" + newline)
	}
	result, err := driver.Run(opt)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(result.Output)
	return err
}

func cmdStencils() error {
	if len(os.Args) > 2 {
		return errors.New(usage + os.Args[1] + newline)
	}
	var names []string
	for name := range driver.Registry {
		names = append(names, name)
	}
	strs := strings.Join(names, newline)
	_, err := os.Stdout.WriteString(strs + newline)
	return err
}

func cmdVersion() error {
	if len(os.Args) > 2 {
		return errors.New(usage + os.Args[1] + newline)
	}
	_, err := os.Stdout.WriteString(strconv.Itoa(version) + newline)
	return err
}

var cmds = [...]struct {
	name string
	hint string
	call func() error
}{
	{"generate", "Generate a vectorized stencil kernel from a registered stencil.", cmdGenerate},
	{"stencils", "List the names of registered stencils.", cmdStencils},
	{"version", "Write the version number of this program to stdout.", cmdVersion},
}

func run() error {
	if len(os.Args) >= 2 {
		arg := os.Args[1]
		for i := range &cmds {
			if cmds[i].name == arg {
				return cmds[i].call()
			}
		}
	}
	max := 0
	for i := range &cmds {
		if alt := len(cmds[i].name); max < alt {
			max = alt
		}
	}
	tot := max + len(indent)
	var list string
	for i := range &cmds {
		name, hint := cmds[i].name, cmds[i].hint
		align := strings.Repeat(space, tot-len(name))
		list += indent + name + align + hint + newline
	}
	return errors.New(usage +
		"COMMAND" + newline +
		newline +
		"The COMMAND argument can be:" + newline +
		newline +
		list)
}

func main() {
	if err := run(); err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + newline)
		os.Exit(1)
	}
	os.Exit(0)
}
