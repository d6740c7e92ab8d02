package addon

import (
	"github.com/zclconf/go-cty/cty"
)

// Builtin returns a catalog with the addons bundled with txtx.
func Builtin() *Catalog {
	return NewCatalog(Std(), EVM(), SVM(), Stacks())
}

func required(name string, ty cty.Type, doc string) InputSpec {
	return InputSpec{Name: name, Type: ty, Documentation: doc}
}

func optional(name string, ty cty.Type, doc string) InputSpec {
	return InputSpec{Name: name, Type: ty, Optional: true, Documentation: doc}
}

func output(name string, ty cty.Type, doc string) OutputSpec {
	return OutputSpec{Name: name, Type: ty, Documentation: doc}
}

// Std returns the standard library addon.
func Std() *Addon {
	return &Addon{
		Namespace: "std",
		Actions: []*ActionSpec{
			{
				Matcher:       "send_http_request",
				Name:          "Send an HTTP request",
				Documentation: "Sends an HTTP request and exposes the response.",
				Inputs: []InputSpec{
					required("url", cty.String, "The URL for the request."),
					optional("body", cty.String, "The request body."),
					optional("method", cty.String, "The HTTP method. Defaults to GET."),
					optional("timeout_ms", cty.Number, "The request timeout in milliseconds."),
					optional("headers", cty.Map(cty.String), "Request headers."),
				},
				Outputs: []OutputSpec{
					output("response_body", cty.String, "The response body."),
					output("status_code", cty.Number, "The response status code."),
				},
			},
		},
	}
}

func evmTxInputs(extra ...InputSpec) []InputSpec {
	inputs := []InputSpec{
		optional("description", cty.String, "A description of the transaction."),
		optional("rpc_api_url", cty.String, "The URL of the EVM API used to broadcast the transaction."),
		required("signer", cty.String, "A reference to the signer used to sign the transaction."),
	}
	inputs = append(inputs, extra...)
	return append(inputs,
		optional("amount", cty.Number, "The amount to send, in wei."),
		optional("type", cty.String, "The transaction type. Defaults to EIP1559."),
		optional("max_fee_per_gas", cty.Number, "Max fee per gas of an EIP1559 transaction."),
		optional("max_priority_fee_per_gas", cty.Number, "Max priority fee per gas of an EIP1559 transaction."),
		optional("chain_id", cty.String, "The chain id."),
		optional("nonce", cty.Number, "The account nonce of the signer."),
		optional("gas_limit", cty.Number, "The gas limit of the transaction."),
		optional("gas_price", cty.Number, "The gas price of a legacy transaction."),
		optional("confirmations", cty.Number, "Confirmations to wait for. Defaults to 1."),
	)
}

// EVM returns the EVM addon.
func EVM() *Addon {
	return &Addon{
		Namespace: "evm",
		Actions: []*ActionSpec{
			{
				Matcher:       "send_eth",
				Name:          "Send ETH",
				Documentation: "Sends ETH to a recipient address.",
				Inputs:        evmTxInputs(required("recipient_address", cty.String, "The EVM address of the recipient.")),
				Outputs: []OutputSpec{
					output("tx_hash", cty.String, "The hash of the transaction."),
				},
			},
			{
				Matcher:       "call_contract",
				Name:          "Call a contract",
				Documentation: "Calls a function on a deployed contract.",
				Inputs: evmTxInputs(
					required("contract_address", cty.String, "The address of the contract."),
					optional("contract_abi", cty.String, "The contract ABI."),
					required("function_name", cty.String, "The function to call."),
					optional("function_args", cty.DynamicPseudoType, "The function arguments."),
				),
				Outputs: []OutputSpec{
					output("tx_hash", cty.String, "The hash of the transaction."),
					output("logs", cty.DynamicPseudoType, "Decoded transaction logs."),
					output("raw_logs", cty.DynamicPseudoType, "Raw transaction logs."),
					output("result", cty.DynamicPseudoType, "The decoded function result."),
					output("abi_encoded_result", cty.String, "The ABI encoded function result."),
				},
			},
			{
				Matcher:       "deploy_contract",
				Name:          "Deploy a contract",
				Documentation: "Deploys a compiled contract.",
				Inputs: evmTxInputs(
					required("contract", cty.DynamicPseudoType, "The compiled contract artifacts."),
					optional("constructor_args", cty.DynamicPseudoType, "The constructor arguments."),
					optional("verify", cty.Bool, "Verify the contract on block explorers."),
					optional("block_explorer_api_key", cty.String, "The block explorer API key."),
				),
				Outputs: []OutputSpec{
					output("tx_hash", cty.String, "The hash of the transaction."),
					output("contract_address", cty.String, "The address of the deployed contract."),
					output("logs", cty.DynamicPseudoType, "Decoded transaction logs."),
					output("abi", cty.String, "The contract ABI."),
				},
			},
			{
				Matcher:       "sign_transaction",
				Name:          "Sign a transaction",
				Documentation: "Signs a prepared transaction payload.",
				Inputs: []InputSpec{
					optional("description", cty.String, "A description of the transaction."),
					required("transaction_payload_bytes", cty.String, "The unsigned transaction payload."),
					required("signer", cty.String, "A reference to the signer."),
				},
				Outputs: []OutputSpec{
					output("tx_hash", cty.String, "The hash of the transaction."),
				},
			},
		},
		Signers: []*SignerSpec{
			{
				Matcher:       "secret_key",
				Documentation: "Signs with a secret key or mnemonic.",
				Inputs: []InputSpec{
					optional("secret_key", cty.String, "The secret key."),
					optional("mnemonic", cty.String, "A mnemonic phrase."),
					optional("derivation_path", cty.String, "The derivation path."),
					optional("is_encrypted", cty.Bool, "Whether the mnemonic is encrypted."),
					optional("password", cty.String, "The mnemonic password."),
				},
				Outputs: []OutputSpec{
					output("public_key", cty.String, "The public key."),
					output("address", cty.String, "The signer address."),
				},
			},
			{
				Matcher:       "web_wallet",
				Documentation: "Signs with a browser wallet.",
				Inputs: []InputSpec{
					optional("expected_address", cty.String, "The address the wallet must use."),
					required("chain_id", cty.String, "The chain id."),
					required("rpc_api_url", cty.String, "The RPC URL."),
				},
				Outputs: []OutputSpec{
					output("address", cty.String, "The signer address."),
				},
			},
			{
				Matcher:       "keystore",
				Documentation: "Signs with a Foundry keystore account.",
				Inputs: []InputSpec{
					required("keystore_account", cty.String, "The keystore account name or path."),
					optional("keystore_path", cty.String, "The keystore directory."),
				},
				Outputs: []OutputSpec{
					output("address", cty.String, "The signer address."),
				},
			},
		},
	}
}

// SVM returns the Solana addon.
func SVM() *Addon {
	return &Addon{
		Namespace: "svm",
		Actions: []*ActionSpec{
			{
				Matcher:       "send_sol",
				Name:          "Send SOL",
				Documentation: "Sends SOL to a recipient.",
				Inputs: []InputSpec{
					optional("description", cty.String, "A description of the transaction."),
					required("amount", cty.Number, "The amount to send, in lamports."),
					required("recipient", cty.String, "The recipient public key."),
					required("signer", cty.String, "A reference to the signer."),
					optional("commitment_level", cty.String, "The commitment level."),
					required("rpc_api_url", cty.String, "The RPC URL."),
					optional("rpc_api_auth_token", cty.String, "The RPC auth token."),
				},
				Outputs: []OutputSpec{
					output("signature", cty.String, "The transaction signature."),
				},
			},
			{
				Matcher:                "process_instructions",
				Name:                   "Process instructions",
				Documentation:          "Sends a transaction built from arbitrary instructions.",
				AcceptsArbitraryInputs: true,
				Outputs: []OutputSpec{
					output("signature", cty.String, "The transaction signature."),
				},
			},
		},
		Signers: []*SignerSpec{
			{
				Matcher: "secret_key",
				Inputs: []InputSpec{
					optional("secret_key", cty.String, "The secret key."),
					optional("keypair_json", cty.String, "Path to a keypair file."),
				},
				Outputs: []OutputSpec{
					output("public_key", cty.String, "The public key."),
				},
			},
			{
				Matcher: "web_wallet",
				Inputs: []InputSpec{
					optional("expected_address", cty.String, "The address the wallet must use."),
				},
				Outputs: []OutputSpec{
					output("public_key", cty.String, "The public key."),
				},
			},
		},
	}
}

// Stacks returns the Stacks addon.
func Stacks() *Addon {
	return &Addon{
		Namespace: "stacks",
		Actions: []*ActionSpec{
			{
				Matcher:       "send_stx",
				Name:          "Send STX",
				Documentation: "Sends STX to a recipient.",
				Inputs: []InputSpec{
					required("amount", cty.Number, "The amount to send, in microSTX."),
					required("recipient", cty.String, "The recipient address."),
					optional("network_id", cty.String, "The network id."),
					optional("rpc_api_url", cty.String, "The RPC URL."),
					optional("rpc_api_auth_token", cty.String, "The RPC auth token."),
					required("signer", cty.String, "A reference to the signer."),
					optional("confirmations", cty.Number, "Confirmations to wait for."),
					optional("nonce", cty.Number, "The account nonce."),
					optional("fee", cty.Number, "The transaction fee."),
				},
				Outputs: []OutputSpec{
					output("signed_transaction_bytes", cty.String, "The signed transaction."),
					output("tx_id", cty.String, "The transaction id."),
					output("result", cty.DynamicPseudoType, "The transaction result."),
				},
			},
		},
		Signers: []*SignerSpec{
			{
				Matcher: "secret_key",
				Inputs: []InputSpec{
					optional("secret_key", cty.String, "The secret key."),
					optional("mnemonic", cty.String, "A mnemonic phrase."),
					optional("derivation_path", cty.String, "The derivation path."),
				},
				Outputs: []OutputSpec{
					output("address", cty.String, "The signer address."),
				},
			},
		},
	}
}
