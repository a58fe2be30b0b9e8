package fuzztests

import "testing"

const maxFuzzInput = 1 << 16 // 64 KiB

var languageSeeds = []string{
	"",
	"pragma solidity ^0.8.0;\n",
	"// SPDX-License-Identifier: MIT\npragma solidity >=0.8.0 <0.9.0;\nimport \"./dep.sol\";\n",
	"import {A as B, C} from \"dep.sol\";\nimport * as D from \"dep.sol\";\n",
	"contract C { uint256 public x; function set(uint256 v) external { x = v; } }",
	"contract T { mapping(address => mapping(address => uint)) allowance; event Approval(address indexed o, address indexed s, uint v); }",
	"abstract contract A { function f() public virtual returns (uint); }\ncontract B is A { function f() public pure override returns (uint) { return 1; } }",
	"library L { function add(uint a, uint b) internal pure returns (uint) { unchecked { return a + b; } } }\ncontract U { using L for uint; }",
	"interface I { error Bad(uint code); function g(bytes calldata d) external returns (bool); }",
	"contract Y { function h() public { try this.h() { } catch Error(string memory r) { } catch (bytes memory) { } } }",
	"contract Z { function a() public pure returns (uint r) { assembly { r := add(1, 2) } } }",
	"struct P { uint x; uint y; }\nenum E { One, Two }\ntype Price is uint128;\nuint constant K = 0x10 ** 2;",
	"contract S { function s(uint[] memory a) public pure returns (uint) { (uint x, , uint z) = (1, 2, 3); return a[1:][0] + x + z; } }",
	"contract Q { receive() external payable { } fallback() external { revert(); } }",
	"contract M { modifier only(address a) { require(msg.sender == a, \"no\"); _; } }",
	"contract N { string s = unicode\"héllo\"; bytes b = hex\"00ff\"; uint d = 1 ether + 2 days; }",
}

func addCorpusSeeds(f *testing.F) {
	for _, s := range languageSeeds {
		f.Add([]byte(s))
	}
}

func clampInput(input []byte) []byte {
	if len(input) > maxFuzzInput {
		input = input[:maxFuzzInput]
	}
	return append([]byte(nil), input...)
}

func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(append([]byte(nil), input[:maxLen]...), "..."...)
}
