package ethsgw

import (
	"crypto/ecdsa"
	"fmt"
	"strings"

	"github.com/btcsuite/btcd/btcutil/hdkeychain"
	"github.com/btcsuite/btcd/chaincfg"
	"github.com/ethereum/go-ethereum/accounts"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/everFinance/goether"
	"github.com/tunnckoCore/ethsgw/schema"
	"github.com/tyler-smith/go-bip39"
)

// GenerateMnemonic returns a 12 word english BIP-39 mnemonic.
func GenerateMnemonic() (string, error) {
	entropy, err := bip39.NewEntropy(128)
	if err != nil {
		return "", err
	}
	return bip39.NewMnemonic(entropy)
}

// GeneratePrivateKey returns a 0x prefixed secp256k1 private key.
func GeneratePrivateKey() (string, error) {
	key, err := crypto.GenerateKey()
	if err != nil {
		return "", err
	}
	return hexutil.Encode(crypto.FromECDSA(key)), nil
}

// CreateAccount builds an account from a mnemonic or a 0x private key. An
// empty seed generates a new mnemonic.
func CreateAccount(seed string) (*schema.Account, error) {
	var err error
	seed = strings.TrimSpace(seed)
	if seed == "" {
		if seed, err = GenerateMnemonic(); err != nil {
			return nil, err
		}
	}

	if strings.HasPrefix(seed, "0x") && !strings.Contains(seed, " ") {
		key, err := crypto.HexToECDSA(strings.TrimPrefix(seed, "0x"))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", schema.ErrInvalidSeed, err)
		}
		return newAccount(key, nil)
	}

	key, err := mnemonicKey(seed)
	if err != nil {
		return nil, err
	}
	return newAccount(key, &seed)
}

// mnemonicKey derives the first account of m/44'/60'/0'/0.
func mnemonicKey(mnemonic string) (*ecdsa.PrivateKey, error) {
	if !bip39.IsMnemonicValid(mnemonic) {
		return nil, schema.ErrInvalidSeed
	}
	seed := bip39.NewSeed(mnemonic, "")
	key, err := hdkeychain.NewMaster(seed, &chaincfg.MainNetParams)
	if err != nil {
		return nil, err
	}
	for _, n := range accounts.DefaultBaseDerivationPath {
		if key, err = key.Derive(n); err != nil {
			return nil, err
		}
	}
	priv, err := key.ECPrivKey()
	if err != nil {
		return nil, err
	}
	return priv.ToECDSA(), nil
}

func newAccount(key *ecdsa.PrivateKey, mnemonic *string) (*schema.Account, error) {
	privHex := hexutil.Encode(crypto.FromECDSA(key))
	signer, err := goether.NewSigner(strings.TrimPrefix(privHex, "0x"))
	if err != nil {
		return nil, err
	}
	return &schema.Account{
		Address:    signer.Address.Hex(),
		PublicKey:  hexutil.Encode(crypto.FromECDSAPub(&key.PublicKey)),
		PrivateKey: privHex,
		Mnemonic:   mnemonic,
	}, nil
}
