// Copyright (c) 2025 The Floresta developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package daemon

import "fmt"

// Kind identifies one of the node daemon implementations the harness knows
// how to launch.  Behavior differences between kinds are data held in the
// tables below, not subtypes, so external code cannot shadow the lifecycle
// logic.
type Kind uint8

const (
	// Florestad is the floresta daemon, the implementation under test.
	Florestad Kind = iota

	// Utreexod is the utreexo-aware btcd fork, used as the reference
	// implementation and as the block producer in mining scenarios.
	Utreexod

	// Bitcoind is bitcoin core, used as a second reference
	// implementation.
	Bitcoind
)

// kindNames maps each kind to the name of its executable.
var kindNames = map[Kind]string{
	Florestad: "florestad",
	Utreexod:  "utreexod",
	Bitcoind:  "bitcoind",
}

// String returns the executable name of the daemon kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// KindFromString resolves a daemon kind from its executable name.
func KindFromString(name string) (Kind, error) {
	for kind, kindName := range kindNames {
		if kindName == name {
			return kind, nil
		}
	}
	return 0, configError("unknown daemon kind %q", name)
}

// baseArgs returns the fixed, mode-appropriate flags every instance of the
// kind is started with.  Extra settings validated by AddSettings follow
// these on the command line.
func (k Kind) baseArgs() []string {
	switch k {
	case Florestad:
		return []string{"--daemon", "--network=regtest"}
	case Utreexod:
		return []string{
			"--regtest",
			"--rpcuser=utreexo",
			"--rpcpass=utreexo",
			"--utreexoproofindex",
		}
	case Bitcoind:
		return []string{
			"-regtest",
			"-server",
			"-rpcuser=bitcoin",
			"-rpcpassword=bitcoin",
		}
	}
	return nil
}

// validArgs returns the allow-list of CLI flags that may be passed to the
// kind via AddSettings.  Deliberately not everything the daemons accept:
// flags like --version or --help make no sense under test.
func (k Kind) validArgs() map[string]struct{} {
	switch k {
	case Florestad:
		return validFlorestadArgs
	case Utreexod:
		return validUtreexodArgs
	case Bitcoind:
		return validBitcoindArgs
	}
	return nil
}

func newArgSet(flags ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(flags))
	for _, flag := range flags {
		set[flag] = struct{}{}
	}
	return set
}

var validFlorestadArgs = newArgSet(
	"-c", "--config-file",
	"-d", "--debug",
	"--log-to-file",
	"--data-dir",
	"--cfilters",
	"-p", "--proxy",
	"--wallet-xpub",
	"--wallet-descriptor",
	"--assume-valid",
	"-z", "--zmq-address",
	"--connect",
	"--rpc-address",
	"--electrum-address",
	"--filters-start-height",
	"--assume-utreexo",
	"--pid-file",
	"--no-ssl",
	"--ssl-electrum-address",
	"--ssl-cert-path",
	"--ssl-key-path",
)

var validUtreexodArgs = newArgSet(
	"--datadir",
	"--logdir",
	"-C", "--configfile",
	"-d", "--debuglevel",
	"--dbtype",
	"--sigcachemaxsize",
	"--utxocachemaxsize",
	"--noutreexo",
	"--prune",
	"--profile",
	"--cpuprofile",
	"--memprofile",
	"--traceprofile",
	"--testnet",
	"--regtest",
	"--notls",
	"--norpc",
	"--rpccert",
	"--rpckey",
	"--rpclimitpass",
	"--rpclimituser",
	"--rpclisten",
	"--rpcmaxclients",
	"--rpcmaxconcurrentreqs",
	"--rpcmaxwebsockets",
	"--rpcquirks",
	"--proxy",
	"--proxypass",
	"--proxyuser",
	"-a", "--addpeer",
	"--connect",
	"--listen",
	"--nolisten",
	"--maxpeers",
	"--uacomment",
	"--trickleinterval",
	"--nodnsseed",
	"--externalip",
	"--upnp",
	"--agentblacklist",
	"--agentwhitelist",
	"--whitelist",
	"--nobanning",
	"--banduration",
	"--banthreshold",
	"--addcheckpoint",
	"--nocheckpoints",
	"--noassumeutreexo",
	"--blocksonly",
	"--maxorphantx",
	"--minrelaytxfee",
	"--norelaypriority",
	"--relaynonstd",
	"--rejectnonstd",
	"--rejectreplacement",
	"--limitfreerelay",
	"--generate",
	"--miningaddr",
	"--blockmaxsize",
	"--blockminsize",
	"--blockmaxweight",
	"--blockminweight",
	"--blockprioritysize",
	"--addrindex",
	"--txindex",
	"--utreexoproofindex",
	"--flatutreexoproofindex",
	"--utreexoproofindexmaxmemory",
	"--cfilters",
	"--nopeerbloomfilters",
	"--dropaddrindex",
	"--dropcfindex",
	"--droptxindex",
	"--droputreexoproofindex",
	"--dropflatutreexoproofindex",
	"--watchonlywallet",
	"--registeraddresstowatchonlywallet",
	"--registerextendedpubkeystowatchonlywallet",
	"--registerextendedpubkeyswithaddresstypetowatchonlywallet",
	"--nobdkwallet",
	"--electrumlisteners",
	"--tlselectrumlisteners",
	"--disableelectrum",
)

var validBitcoindArgs = newArgSet(
	"-datadir",
	"-port",
	"-bind",
	"-rpcport",
	"-rpcbind",
	"-rpcallowip",
	"-connect",
	"-addnode",
	"-listen",
	"-txindex",
	"-prune",
	"-debug",
	"-debuglogfile",
	"-fallbackfee",
	"-blockfilterindex",
	"-peerblockfilters",
	"-maxconnections",
	"-v2transport",
	"-dnsseed",
)
