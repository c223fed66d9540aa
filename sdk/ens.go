package sdk

import (
	"context"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/net/idna"
)

// EnsRegistry is the ENS registry deployment shared by mainnet and the testnets.
var EnsRegistry = ethcommon.HexToAddress("0x00000000000C2E074eC69A0dFb2997BA6C7d2e1e")

const ensAbiJson = `[
{"constant":true,"inputs":[{"name":"node","type":"bytes32"}],"name":"resolver","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"},
{"constant":true,"inputs":[{"name":"node","type":"bytes32"}],"name":"addr","outputs":[{"name":"","type":"address"}],"stateMutability":"view","type":"function"}
]`

var (
	ensAbi abi.ABI

	ensProfile = idna.New(
		idna.MapForLookup(),
		idna.Transitional(false),
		idna.StrictDomainName(false),
	)
)

func init() {
	var err error
	ensAbi, err = abi.JSON(strings.NewReader(ensAbiJson))
	if err != nil {
		panic(err)
	}
}

// ENS resolves names to addresses through the registry and the name's resolver contract.
type ENS struct {
	caller   ethereum.ContractCaller
	registry ethcommon.Address
	client   *ethclient.Client
}

func NewENS(rpcUrl string) (*ENS, error) {
	client, err := ethclient.Dial(rpcUrl)
	if err != nil {
		return nil, err
	}
	e := NewENSWithCaller(client)
	e.client = client
	return e, nil
}

func NewENSWithCaller(caller ethereum.ContractCaller) *ENS {
	return &ENS{caller: caller, registry: EnsRegistry}
}

func (e *ENS) Close() {
	if e.client != nil {
		e.client.Close()
	}
}

// NormalizeName applies UTS-46 mapping to an ENS name.
func NormalizeName(name string) (string, error) {
	return ensProfile.ToUnicode(strings.TrimSpace(name))
}

// NameHash is the EIP-137 namehash of an already normalized name.
func NameHash(name string) [32]byte {
	var node [32]byte
	if name == "" {
		return node
	}
	labels := strings.Split(name, ".")
	for i := len(labels) - 1; i >= 0; i-- {
		labelHash := crypto.Keccak256([]byte(labels[i]))
		copy(node[:], crypto.Keccak256(node[:], labelHash))
	}
	return node
}

// ResolveName returns the address a name points at, or "" when the name has
// no resolver or no address record.
func (e *ENS) ResolveName(ctx context.Context, name string) (string, error) {
	normalized, err := NormalizeName(name)
	if err != nil {
		return "", err
	}
	node := NameHash(normalized)

	resolver, err := e.callAddress(ctx, e.registry, "resolver", node)
	if err != nil {
		return "", err
	}
	if resolver == (ethcommon.Address{}) {
		log.Debug("ens name has no resolver", "name", normalized)
		return "", nil
	}
	addr, err := e.callAddress(ctx, resolver, "addr", node)
	if err != nil {
		return "", err
	}
	if addr == (ethcommon.Address{}) {
		return "", nil
	}
	return addr.Hex(), nil
}

func (e *ENS) callAddress(ctx context.Context, to ethcommon.Address, method string, node [32]byte) (ethcommon.Address, error) {
	input, err := ensAbi.Pack(method, node)
	if err != nil {
		return ethcommon.Address{}, err
	}
	out, err := e.caller.CallContract(ctx, ethereum.CallMsg{To: &to, Data: input}, nil)
	if err != nil {
		return ethcommon.Address{}, err
	}
	// an account without code answers with empty data
	if len(out) == 0 {
		return ethcommon.Address{}, nil
	}
	res, err := ensAbi.Unpack(method, out)
	if err != nil {
		return ethcommon.Address{}, err
	}
	addr, _ := res[0].(ethcommon.Address)
	return addr, nil
}
