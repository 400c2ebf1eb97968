package conformance

// Corpus is the built-in set of parity cases.
var Corpus = []Case{
	{Name: "comments", Succeed: true, Source: "  // one line comment\n" +
		"  /* multiline\n" +
		"comment with * and / and /* and /***...\n" +
		"and also // and ///*** and more! */\n" +
		`console.log("Hello world!");`},

	{Name: "assignments", Succeed: true, Source: "// variable assignments\n" +
		"var a;\n" +
		"a = 0;\n" +
		"console.log(a);\n" +
		"var a = 5;\n" +
		"console.log(a);\n" +
		"var b = a*a+a/a-a%a+(a*a*a-a);\n" +
		"console.log(b);\n" +
		"var c=b, d=c, e=d;\n" +
		"console.log(e);\n" +
		"c = b==c && c==d && d==b;\n" +
		"console.log(c);\n" +
		"d = c || b > d;\n" +
		"console.log(d);\n" +
		"e = (1>2 && 1>=2 && 2<1 && 2<=1) || 2 != 1;\n" +
		"console.log(e);\n" +
		"var f = -5 > +3 || !false;\n" +
		"console.log(f);\n" +
		"f = !(f || false) || false;\n" +
		"console.log(f);\n" +
		"a = 1.4E-02;\n" +
		"console.log(a);\n" +
		"a += a;\n" +
		"console.log(a);\n" +
		"a *= a;\n" +
		"console.log(a);\n" +
		"a -= a/10;\n" +
		"console.log(a);\n" +
		"a /= 0.003;\n" +
		"console.log(a);\n" +
		"a %= 10;\n" +
		"console.log(a);\n" +
		"a++;\n" +
		"console.log(a);\n" +
		"a--;\n" +
		"console.log(a);\n" +
		"a = 5+3*5+1+9*10/5%2+18/23-52/16%82-53*32;\n" +
		"console.log(a);\n" +
		`var str="";` + "\n" +
		"console.log(str);\n" +
		`str += "hi";` + "\n" +
		"console.log(str);\n" +
		"str += 10;\n" +
		"console.log(str);\n" +
		"str = 5+5+str;\n" +
		"console.log(str);\n" +
		"var len = str.length;\n" +
		"console.log(len);"},

	{Name: "control", Succeed: true, Source: "// control structures\n" +
		"var f=true, e=!f;\n" +
		"if (true) {\n" +
		"  console.log(true);\n" +
		"  if (f && e && false) {\n" +
		"    console.log(false);\n" +
		"  } else {\n" +
		"    if (false) {\n" +
		"      console.log(false);\n" +
		"    } else if (true) {\n" +
		"      console.log(true);\n" +
		"    }\n" +
		"  }\n" +
		"}\n" +
		"\n" +
		"var i=0;\n" +
		"while (i<10) {\n" +
		"  console.log(i*i-i);\n" +
		"  i++;\n" +
		"}\n" +
		"\n" +
		"for (var j=0; j<10; j++) {\n" +
		"  console.log(j);\n" +
		"}"},

	{Name: "functions_simple", Succeed: true, Source: "// functions simple\n" +
		"function f1(n) {\n" +
		"  console.log(n*100);\n" +
		"}\n" +
		"function f2(n) {\n" +
		"  return n*100;\n" +
		"}\n" +
		"f1(10);\n" +
		"console.log(f2(20));"},

	{Name: "functions_complex", Succeed: true, Source: "// functions complex\n" +
		`var a, b=100, c="test", d=1000;` + "\n" +
		"function f1(a, b, c, q1, q2, q3) {\n" +
		"  console.log(a+d);\n" +
		"  console.log(f2(b*3)/3);\n" +
		"  console.log(f3(b, c));\n" +
		"  console.log((q1+q2)%q3);\n" +
		"}\n" +
		"function f2(n) {\n" +
		"  var c = n;\n" +
		"  return n+(3/c);\n" +
		"}\n" +
		"function f3(a,b) {\n" +
		"  console.log(a);\n" +
		"  console.log(b);\n" +
		"  for (var c=0; c>-100; c--) {\n" +
		"    a *= b;\n" +
		"  }\n" +
		"  return a+b;\n" +
		"}\n" +
		"var x=5, y=10, z=15;\n" +
		`f1(x,y,z, 8, 9, 10, "test");`},

	{Name: "missing_semicolon_1", Succeed: true, Source: "var a"},
	{Name: "missing_semicolon_2", Succeed: true, Source: "var a=5*5"},
	{Name: "missing_semicolon_3", Succeed: true, Source: "var a;\n a=5*5"},
	{Name: "missing_semicolon_4", Succeed: true, Source: "var a;\n if (a) {\n a=5*5 \n}"},
	{Name: "missing_semicolon_5", Succeed: true, Source: "console.log(5)"},
	{Name: "missing_semicolon_6", Succeed: true, Source: "var a;\n a+=a"},
	{Name: "missing_semicolon_7", Succeed: true, Source: "for(var a=0 a<5; a++) {\n }"},
	{Name: "missing_bracket_1", Succeed: true, Source: "if (true) \n }"},
	{Name: "missing_bracket_2", Succeed: true, Source: "if (true) {"},
	{Name: "missing_bracket_3", Succeed: true, Source: "while (true) \n }"},
	{Name: "missing_bracket_4", Succeed: true, Source: "while (true) {"},
	{Name: "missing_bracket_5", Succeed: true, Source: "for (var i=0; i<10; i++) \n }"},
	{Name: "missing_bracket_6", Succeed: true, Source: "for (var i=0; i<10; i++) {\n"},
	{Name: "missing_bracket_7", Succeed: true, Source: "if (true) {\n } else \n }"},
	{Name: "missing_bracket_8", Succeed: true, Source: "if (true) {\n } else { \n"},
	{Name: "missing_bracket_9", Succeed: true, Source: "if (true) {\n  else { \n }"},
	{Name: "missing_bracket_10", Succeed: true, Source: "if (true) \n } else { \n }"},
	{Name: "missing_bracket_11", Succeed: true, Source: "if (5>(5+5) {\n }"},
	{Name: "missing_bracket_12", Succeed: true, Source: "if 5>5) {\n }"},
	{Name: "incorrect_string_1", Succeed: true, Source: `var str = "Hello World!;`},
	{Name: "incorrect_string_2", Succeed: true, Source: `var str = "Hello World!`},
	{Name: "incorrect_string_3", Succeed: true, Source: `var str = Hello World!";`},
	{Name: "reserved_word_1", Succeed: true, Source: "var jsmm;"},
	{Name: "reserved_word_2", Succeed: true, Source: "var vars;"},

	{Name: "string_concatenation", Succeed: true, Source: `var s = "";` + "\n" +
		"for (var i = 0; i < 3; i++) {\n" +
		"  s += i;\n" +
		"}\n" +
		`console.log(s, s + "!", s.length);`},
	{Name: "array_slots", Succeed: true, Source: "var a = [1, 2];\n" +
		"a[4] = 5;\n" +
		"console.log(a.length);\n" +
		"a.length = 1;\n" +
		"console.log(a);\n" +
		"a[1] = [3, 4];\n" +
		"a[1][0] += 10;\n" +
		"console.log(a[1][0], a.length);"},

	{Name: "unary_1", Source: "console.log(+true);"},
	{Name: "unary_2", Source: "console.log(-false);"},
	{Name: "unary_3", Source: `console.log(+"string");`},
	{Name: "unary_4", Source: `console.log(-"string");`},
	{Name: "unary_5", Source: `console.log(!"string");`},
	{Name: "unary_6", Source: "console.log(!5);"},
	{Name: "invalid_funcion_call_1", Source: "function f(a, b) {\n return a;\n }\n f(1);"},
	{Name: "invalid_funcion_call_2", Source: "function f(a, b) {\n return a+b;\n }\n f(1);"},
	{Name: "division_by_zero", Source: "var a = 5;\nconsole.log(a / 0);"},
	{Name: "modulo_by_zero", Source: "var a = 5;\na %= 0;"},
	{Name: "read_past_end", Source: "var a = [1, 2];\nconsole.log(a[2]);"},
	{Name: "guard_not_boolean", Source: "var a = 1;\nwhile (a) {\n  a--;\n}"},
	{Name: "undefined_operand", Source: "var a;\nconsole.log(a + 1);"},
}
