// Command querygate-passwd prints an argon2id hash for AUTH_PASSWORD_HASH
package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"math"
	"os"
	"strings"

	"querygate/internal/services/auth/repo"
)

func main() {
	d := repo.DefaultArgon2Params
	memory := flag.Uint("memory", uint(d.Memory), "memory in KiB")
	iterations := flag.Uint("time", uint(d.Time), "iterations")
	parallel := flag.Uint("parallelism", uint(d.Parallelism), "lanes (1-255)")
	flag.Usage = func() {
		fmt.Fprintln(os.Stderr, "usage: querygate-passwd [flags] < password")
		flag.PrintDefaults()
	}
	flag.Parse()

	p, err := params(*memory, *iterations, *parallel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	// read from stdin so the password stays out of shell history
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	pw := strings.TrimRight(line, "\r\n")
	if pw == "" {
		if err != nil {
			fmt.Fprintln(os.Stderr, "read password:", err)
		} else {
			fmt.Fprintln(os.Stderr, "empty password")
		}
		os.Exit(2)
	}

	hash, err := repo.HashPassword(pw, p)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}

// params range checks the flags before narrowing them into argon2 costs
func params(memory, iterations, parallel uint) (repo.Argon2Params, error) {
	p := repo.DefaultArgon2Params
	switch {
	case parallel < 1 || parallel > math.MaxUint8:
		return p, fmt.Errorf("parallelism must be 1-%d, got %d", math.MaxUint8, parallel)
	case iterations < 1 || iterations > math.MaxUint32:
		return p, fmt.Errorf("time must be 1-%d, got %d", uint64(math.MaxUint32), iterations)
	case memory > math.MaxUint32:
		return p, fmt.Errorf("memory must be at most %d KiB, got %d", uint64(math.MaxUint32), memory)
	case memory < 8*parallel:
		return p, errors.New("memory must be at least 8 KiB per lane")
	}
	p.Memory = uint32(memory)
	p.Time = uint32(iterations)
	p.Parallelism = uint8(parallel)
	return p, nil
}
