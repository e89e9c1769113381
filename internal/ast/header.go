package ast

import "github.com/sunholo/lumen/internal/ident"

// Header is any of the five file header kinds (spec.md §4.3, §6).
type Header interface {
	headerNode()
}

type ModuleHeader struct {
	Exposes []ident.Idx
}

func (*ModuleHeader) headerNode() {}

// PlatformPackage names the `{ pf: platform "…" }` entry of an app
// header.
type PlatformPackage struct {
	Shorthand string
	Location  string
}

type AppHeader struct {
	Provides []ident.Idx
	Platform PlatformPackage
}

func (*AppHeader) headerNode() {}

type PackageDep struct {
	Shorthand string
	Location  string
}

type PackageHeader struct {
	Exposes []ident.Idx
	Deps    []PackageDep
}

func (*PackageHeader) headerNode() {}

type PlatformHeader struct {
	Requires []ident.Idx
	Exposes  []ident.Idx
	Packages []PackageDep
	Imports  []string
}

func (*PlatformHeader) headerNode() {}

type HostedHeader struct {
	Exposes []ident.Idx
}

func (*HostedHeader) headerNode() {}

// TypeModuleHeader is synthesized when a file has no explicit header
// but defines a top-level type matching its filename (spec.md §4.3).
type TypeModuleHeader struct {
	TypeName string
}

func (*TypeModuleHeader) headerNode() {}

// MalformedHeader records `missing_header`: the parser still parses
// the body even when no valid header was found.
type MalformedHeader struct {
	Reason string
}

func (*MalformedHeader) headerNode() {}
